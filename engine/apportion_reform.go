package engine

// generated with gopkg.in/reform.v1

import (
	"fmt"
	"strings"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/parse"
)

type feePayApportionTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("").
func (v *feePayApportionTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("fee_pay_apportions").
func (v *feePayApportionTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *feePayApportionTableType) Columns() []string {
	return []string{"apportion_id", "payment_id", "fee_id", "apportion_amount", "payment_amount", "fee_amount", "ccd_case_number", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *feePayApportionTableType) NewStruct() reform.Struct {
	return new(FeePayApportion)
}

// NewRecord makes a new record for that table.
func (v *feePayApportionTableType) NewRecord() reform.Record {
	return new(FeePayApportion)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *feePayApportionTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// FeePayApportionTable represents fee_pay_apportions view or table in SQL database.
var FeePayApportionTable = &feePayApportionTableType{
	s: parse.StructInfo{Type: "FeePayApportion", SQLSchema: "", SQLName: "fee_pay_apportions", Fields: []parse.FieldInfo{{Name: "ApportionID", PKType: "int64", Column: "apportion_id"}, {Name: "PaymentID", PKType: "", Column: "payment_id"}, {Name: "FeeID", PKType: "", Column: "fee_id"}, {Name: "ApportionAmount", PKType: "", Column: "apportion_amount"}, {Name: "PaymentAmount", PKType: "", Column: "payment_amount"}, {Name: "FeeAmount", PKType: "", Column: "fee_amount"}, {Name: "CcdCaseNumber", PKType: "", Column: "ccd_case_number"}, {Name: "CreatedAt", PKType: "", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(FeePayApportion).Values(),
}

// String returns a string representation of this struct or record.
func (s FeePayApportion) String() string {
	res := make([]string, 8)
	res[0] = "ApportionID: " + reform.Inspect(s.ApportionID, true)
	res[1] = "PaymentID: " + reform.Inspect(s.PaymentID, true)
	res[2] = "FeeID: " + reform.Inspect(s.FeeID, true)
	res[3] = "ApportionAmount: " + reform.Inspect(s.ApportionAmount, true)
	res[4] = "PaymentAmount: " + reform.Inspect(s.PaymentAmount, true)
	res[5] = "FeeAmount: " + reform.Inspect(s.FeeAmount, true)
	res[6] = "CcdCaseNumber: " + reform.Inspect(s.CcdCaseNumber, true)
	res[7] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *FeePayApportion) Values() []interface{} {
	return []interface{}{
		s.ApportionID,
		s.PaymentID,
		s.FeeID,
		s.ApportionAmount,
		s.PaymentAmount,
		s.FeeAmount,
		s.CcdCaseNumber,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *FeePayApportion) Pointers() []interface{} {
	return []interface{}{
		&s.ApportionID,
		&s.PaymentID,
		&s.FeeID,
		&s.ApportionAmount,
		&s.PaymentAmount,
		&s.FeeAmount,
		&s.CcdCaseNumber,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *FeePayApportion) View() reform.View {
	return FeePayApportionTable
}

// Table returns Table object for that record.
func (s *FeePayApportion) Table() reform.Table {
	return FeePayApportionTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *FeePayApportion) PKValue() interface{} {
	return s.ApportionID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *FeePayApportion) PKPointer() interface{} {
	return &s.ApportionID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *FeePayApportion) HasPK() bool {
	return s.ApportionID != FeePayApportionTable.z[FeePayApportionTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *FeePayApportion) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.ApportionID = int64(i64)
	} else {
		s.ApportionID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = FeePayApportionTable
	_ reform.Struct = new(FeePayApportion)
	_ reform.Table  = FeePayApportionTable
	_ reform.Record = new(FeePayApportion)
	_ fmt.Stringer  = new(FeePayApportion)
)

func init() {
	parse.AssertUpToDate(&FeePayApportionTable.s, new(FeePayApportion))
}
