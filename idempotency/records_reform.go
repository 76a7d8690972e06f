package idempotency

// generated with gopkg.in/reform.v1

import (
	"fmt"
	"strings"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/parse"
)

type recordTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("").
func (v *recordTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("idempotency_keys").
func (v *recordTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *recordTableType) Columns() []string {
	return []string{"record_id", "idempotency_key", "request_hash", "request_body", "response_body", "response_code", "status", "updated_at", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *recordTableType) NewStruct() reform.Struct {
	return new(Record)
}

// NewRecord makes a new record for that table.
func (v *recordTableType) NewRecord() reform.Record {
	return new(Record)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *recordTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// RecordTable represents idempotency_keys view or table in SQL database.
var RecordTable = &recordTableType{
	s: parse.StructInfo{Type: "Record", SQLSchema: "", SQLName: "idempotency_keys", Fields: []parse.FieldInfo{{Name: "RecordID", PKType: "int64", Column: "record_id"}, {Name: "IdempotencyKey", PKType: "", Column: "idempotency_key"}, {Name: "RequestHash", PKType: "", Column: "request_hash"}, {Name: "RequestBody", PKType: "", Column: "request_body"}, {Name: "ResponseBody", PKType: "", Column: "response_body"}, {Name: "ResponseCode", PKType: "", Column: "response_code"}, {Name: "Status", PKType: "", Column: "status"}, {Name: "UpdatedAt", PKType: "", Column: "updated_at"}, {Name: "CreatedAt", PKType: "", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(Record).Values(),
}

// String returns a string representation of this struct or record.
func (s Record) String() string {
	res := make([]string, 9)
	res[0] = "RecordID: " + reform.Inspect(s.RecordID, true)
	res[1] = "IdempotencyKey: " + reform.Inspect(s.IdempotencyKey, true)
	res[2] = "RequestHash: " + reform.Inspect(s.RequestHash, true)
	res[3] = "RequestBody: " + reform.Inspect(s.RequestBody, true)
	res[4] = "ResponseBody: " + reform.Inspect(s.ResponseBody, true)
	res[5] = "ResponseCode: " + reform.Inspect(s.ResponseCode, true)
	res[6] = "Status: " + reform.Inspect(s.Status, true)
	res[7] = "UpdatedAt: " + reform.Inspect(s.UpdatedAt, true)
	res[8] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *Record) Values() []interface{} {
	return []interface{}{
		s.RecordID,
		s.IdempotencyKey,
		s.RequestHash,
		s.RequestBody,
		s.ResponseBody,
		s.ResponseCode,
		s.Status,
		s.UpdatedAt,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *Record) Pointers() []interface{} {
	return []interface{}{
		&s.RecordID,
		&s.IdempotencyKey,
		&s.RequestHash,
		&s.RequestBody,
		&s.ResponseBody,
		&s.ResponseCode,
		&s.Status,
		&s.UpdatedAt,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *Record) View() reform.View {
	return RecordTable
}

// Table returns Table object for that record.
func (s *Record) Table() reform.Table {
	return RecordTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *Record) PKValue() interface{} {
	return s.RecordID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *Record) PKPointer() interface{} {
	return &s.RecordID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *Record) HasPK() bool {
	return s.RecordID != RecordTable.z[RecordTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *Record) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.RecordID = int64(i64)
	} else {
		s.RecordID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = RecordTable
	_ reform.Struct = new(Record)
	_ reform.Table  = RecordTable
	_ reform.Record = new(Record)
	_ fmt.Stringer  = new(Record)
)

func init() {
	parse.AssertUpToDate(&RecordTable.s, new(Record))
}
