package engine

// generated with gopkg.in/reform.v1

import (
	"fmt"
	"strings"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/parse"
)

type paymentTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("").
func (v *paymentTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("payments").
func (v *paymentTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *paymentTableType) Columns() []string {
	return []string{"payment_id", "service_request_id", "reference", "amount", "currency", "status", "channel", "method", "external_reference", "next_url", "account_number", "ccd_case_number", "updated_at", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *paymentTableType) NewStruct() reform.Struct {
	return new(Payment)
}

// NewRecord makes a new record for that table.
func (v *paymentTableType) NewRecord() reform.Record {
	return new(Payment)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *paymentTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// PaymentTable represents payments view or table in SQL database.
var PaymentTable = &paymentTableType{
	s: parse.StructInfo{Type: "Payment", SQLSchema: "", SQLName: "payments", Fields: []parse.FieldInfo{{Name: "PaymentID", PKType: "int64", Column: "payment_id"}, {Name: "ServiceRequestID", PKType: "", Column: "service_request_id"}, {Name: "Reference", PKType: "", Column: "reference"}, {Name: "Amount", PKType: "", Column: "amount"}, {Name: "Currency", PKType: "", Column: "currency"}, {Name: "Status", PKType: "", Column: "status"}, {Name: "Channel", PKType: "", Column: "channel"}, {Name: "Method", PKType: "", Column: "method"}, {Name: "ExternalReference", PKType: "", Column: "external_reference"}, {Name: "NextURL", PKType: "", Column: "next_url"}, {Name: "AccountNumber", PKType: "", Column: "account_number"}, {Name: "CcdCaseNumber", PKType: "", Column: "ccd_case_number"}, {Name: "UpdatedAt", PKType: "", Column: "updated_at"}, {Name: "CreatedAt", PKType: "", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(Payment).Values(),
}

// String returns a string representation of this struct or record.
func (s Payment) String() string {
	res := make([]string, 14)
	res[0] = "PaymentID: " + reform.Inspect(s.PaymentID, true)
	res[1] = "ServiceRequestID: " + reform.Inspect(s.ServiceRequestID, true)
	res[2] = "Reference: " + reform.Inspect(s.Reference, true)
	res[3] = "Amount: " + reform.Inspect(s.Amount, true)
	res[4] = "Currency: " + reform.Inspect(s.Currency, true)
	res[5] = "Status: " + reform.Inspect(s.Status, true)
	res[6] = "Channel: " + reform.Inspect(s.Channel, true)
	res[7] = "Method: " + reform.Inspect(s.Method, true)
	res[8] = "ExternalReference: " + reform.Inspect(s.ExternalReference, true)
	res[9] = "NextURL: " + reform.Inspect(s.NextURL, true)
	res[10] = "AccountNumber: " + reform.Inspect(s.AccountNumber, true)
	res[11] = "CcdCaseNumber: " + reform.Inspect(s.CcdCaseNumber, true)
	res[12] = "UpdatedAt: " + reform.Inspect(s.UpdatedAt, true)
	res[13] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *Payment) Values() []interface{} {
	return []interface{}{
		s.PaymentID,
		s.ServiceRequestID,
		s.Reference,
		s.Amount,
		s.Currency,
		s.Status,
		s.Channel,
		s.Method,
		s.ExternalReference,
		s.NextURL,
		s.AccountNumber,
		s.CcdCaseNumber,
		s.UpdatedAt,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *Payment) Pointers() []interface{} {
	return []interface{}{
		&s.PaymentID,
		&s.ServiceRequestID,
		&s.Reference,
		&s.Amount,
		&s.Currency,
		&s.Status,
		&s.Channel,
		&s.Method,
		&s.ExternalReference,
		&s.NextURL,
		&s.AccountNumber,
		&s.CcdCaseNumber,
		&s.UpdatedAt,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *Payment) View() reform.View {
	return PaymentTable
}

// Table returns Table object for that record.
func (s *Payment) Table() reform.Table {
	return PaymentTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *Payment) PKValue() interface{} {
	return s.PaymentID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *Payment) PKPointer() interface{} {
	return &s.PaymentID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *Payment) HasPK() bool {
	return s.PaymentID != PaymentTable.z[PaymentTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *Payment) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.PaymentID = int64(i64)
	} else {
		s.PaymentID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = PaymentTable
	_ reform.Struct = new(Payment)
	_ reform.Table  = PaymentTable
	_ reform.Record = new(Payment)
	_ fmt.Stringer  = new(Payment)
)

type statusHistoryTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("").
func (v *statusHistoryTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("payment_status_history").
func (v *statusHistoryTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *statusHistoryTableType) Columns() []string {
	return []string{"history_id", "payment_id", "status", "error_code", "error_message", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *statusHistoryTableType) NewStruct() reform.Struct {
	return new(StatusHistory)
}

// NewRecord makes a new record for that table.
func (v *statusHistoryTableType) NewRecord() reform.Record {
	return new(StatusHistory)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *statusHistoryTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// StatusHistoryTable represents payment_status_history view or table in SQL database.
var StatusHistoryTable = &statusHistoryTableType{
	s: parse.StructInfo{Type: "StatusHistory", SQLSchema: "", SQLName: "payment_status_history", Fields: []parse.FieldInfo{{Name: "HistoryID", PKType: "int64", Column: "history_id"}, {Name: "PaymentID", PKType: "", Column: "payment_id"}, {Name: "Status", PKType: "", Column: "status"}, {Name: "ErrorCode", PKType: "", Column: "error_code"}, {Name: "ErrorMessage", PKType: "", Column: "error_message"}, {Name: "CreatedAt", PKType: "", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(StatusHistory).Values(),
}

// String returns a string representation of this struct or record.
func (s StatusHistory) String() string {
	res := make([]string, 6)
	res[0] = "HistoryID: " + reform.Inspect(s.HistoryID, true)
	res[1] = "PaymentID: " + reform.Inspect(s.PaymentID, true)
	res[2] = "Status: " + reform.Inspect(s.Status, true)
	res[3] = "ErrorCode: " + reform.Inspect(s.ErrorCode, true)
	res[4] = "ErrorMessage: " + reform.Inspect(s.ErrorMessage, true)
	res[5] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *StatusHistory) Values() []interface{} {
	return []interface{}{
		s.HistoryID,
		s.PaymentID,
		s.Status,
		s.ErrorCode,
		s.ErrorMessage,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *StatusHistory) Pointers() []interface{} {
	return []interface{}{
		&s.HistoryID,
		&s.PaymentID,
		&s.Status,
		&s.ErrorCode,
		&s.ErrorMessage,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *StatusHistory) View() reform.View {
	return StatusHistoryTable
}

// Table returns Table object for that record.
func (s *StatusHistory) Table() reform.Table {
	return StatusHistoryTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *StatusHistory) PKValue() interface{} {
	return s.HistoryID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *StatusHistory) PKPointer() interface{} {
	return &s.HistoryID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *StatusHistory) HasPK() bool {
	return s.HistoryID != StatusHistoryTable.z[StatusHistoryTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *StatusHistory) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.HistoryID = int64(i64)
	} else {
		s.HistoryID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = StatusHistoryTable
	_ reform.Struct = new(StatusHistory)
	_ reform.Table  = StatusHistoryTable
	_ reform.Record = new(StatusHistory)
	_ fmt.Stringer  = new(StatusHistory)
)

func init() {
	parse.AssertUpToDate(&PaymentTable.s, new(Payment))
	parse.AssertUpToDate(&StatusHistoryTable.s, new(StatusHistory))
}
