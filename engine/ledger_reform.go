package engine

// generated with gopkg.in/reform.v1

import (
	"fmt"
	"strings"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/parse"
)

type serviceRequestTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("").
func (v *serviceRequestTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("service_requests").
func (v *serviceRequestTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *serviceRequestTableType) Columns() []string {
	return []string{"service_request_id", "reference", "ccd_case_number", "case_reference", "org_id", "enterprise_service_name", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *serviceRequestTableType) NewStruct() reform.Struct {
	return new(ServiceRequest)
}

// NewRecord makes a new record for that table.
func (v *serviceRequestTableType) NewRecord() reform.Record {
	return new(ServiceRequest)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *serviceRequestTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// ServiceRequestTable represents service_requests view or table in SQL database.
var ServiceRequestTable = &serviceRequestTableType{
	s: parse.StructInfo{Type: "ServiceRequest", SQLSchema: "", SQLName: "service_requests", Fields: []parse.FieldInfo{{Name: "ServiceRequestID", PKType: "int64", Column: "service_request_id"}, {Name: "Reference", PKType: "", Column: "reference"}, {Name: "CcdCaseNumber", PKType: "", Column: "ccd_case_number"}, {Name: "CaseReference", PKType: "", Column: "case_reference"}, {Name: "OrgID", PKType: "", Column: "org_id"}, {Name: "EnterpriseServiceName", PKType: "", Column: "enterprise_service_name"}, {Name: "CreatedAt", PKType: "", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(ServiceRequest).Values(),
}

// String returns a string representation of this struct or record.
func (s ServiceRequest) String() string {
	res := make([]string, 7)
	res[0] = "ServiceRequestID: " + reform.Inspect(s.ServiceRequestID, true)
	res[1] = "Reference: " + reform.Inspect(s.Reference, true)
	res[2] = "CcdCaseNumber: " + reform.Inspect(s.CcdCaseNumber, true)
	res[3] = "CaseReference: " + reform.Inspect(s.CaseReference, true)
	res[4] = "OrgID: " + reform.Inspect(s.OrgID, true)
	res[5] = "EnterpriseServiceName: " + reform.Inspect(s.EnterpriseServiceName, true)
	res[6] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *ServiceRequest) Values() []interface{} {
	return []interface{}{
		s.ServiceRequestID,
		s.Reference,
		s.CcdCaseNumber,
		s.CaseReference,
		s.OrgID,
		s.EnterpriseServiceName,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *ServiceRequest) Pointers() []interface{} {
	return []interface{}{
		&s.ServiceRequestID,
		&s.Reference,
		&s.CcdCaseNumber,
		&s.CaseReference,
		&s.OrgID,
		&s.EnterpriseServiceName,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *ServiceRequest) View() reform.View {
	return ServiceRequestTable
}

// Table returns Table object for that record.
func (s *ServiceRequest) Table() reform.Table {
	return ServiceRequestTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *ServiceRequest) PKValue() interface{} {
	return s.ServiceRequestID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *ServiceRequest) PKPointer() interface{} {
	return &s.ServiceRequestID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *ServiceRequest) HasPK() bool {
	return s.ServiceRequestID != ServiceRequestTable.z[ServiceRequestTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *ServiceRequest) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.ServiceRequestID = int64(i64)
	} else {
		s.ServiceRequestID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = ServiceRequestTable
	_ reform.Struct = new(ServiceRequest)
	_ reform.Table  = ServiceRequestTable
	_ reform.Record = new(ServiceRequest)
	_ fmt.Stringer  = new(ServiceRequest)
)

type feeTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("").
func (v *feeTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("fees").
func (v *feeTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *feeTableType) Columns() []string {
	return []string{"fee_id", "service_request_id", "code", "version", "calculated_amount", "volume", "amount_due", "ccd_case_number", "updated_at", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *feeTableType) NewStruct() reform.Struct {
	return new(Fee)
}

// NewRecord makes a new record for that table.
func (v *feeTableType) NewRecord() reform.Record {
	return new(Fee)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *feeTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// FeeTable represents fees view or table in SQL database.
var FeeTable = &feeTableType{
	s: parse.StructInfo{Type: "Fee", SQLSchema: "", SQLName: "fees", Fields: []parse.FieldInfo{{Name: "FeeID", PKType: "int64", Column: "fee_id"}, {Name: "ServiceRequestID", PKType: "", Column: "service_request_id"}, {Name: "Code", PKType: "", Column: "code"}, {Name: "Version", PKType: "", Column: "version"}, {Name: "CalculatedAmount", PKType: "", Column: "calculated_amount"}, {Name: "Volume", PKType: "", Column: "volume"}, {Name: "AmountDue", PKType: "", Column: "amount_due"}, {Name: "CcdCaseNumber", PKType: "", Column: "ccd_case_number"}, {Name: "UpdatedAt", PKType: "", Column: "updated_at"}, {Name: "CreatedAt", PKType: "", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(Fee).Values(),
}

// String returns a string representation of this struct or record.
func (s Fee) String() string {
	res := make([]string, 10)
	res[0] = "FeeID: " + reform.Inspect(s.FeeID, true)
	res[1] = "ServiceRequestID: " + reform.Inspect(s.ServiceRequestID, true)
	res[2] = "Code: " + reform.Inspect(s.Code, true)
	res[3] = "Version: " + reform.Inspect(s.Version, true)
	res[4] = "CalculatedAmount: " + reform.Inspect(s.CalculatedAmount, true)
	res[5] = "Volume: " + reform.Inspect(s.Volume, true)
	res[6] = "AmountDue: " + reform.Inspect(s.AmountDue, true)
	res[7] = "CcdCaseNumber: " + reform.Inspect(s.CcdCaseNumber, true)
	res[8] = "UpdatedAt: " + reform.Inspect(s.UpdatedAt, true)
	res[9] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *Fee) Values() []interface{} {
	return []interface{}{
		s.FeeID,
		s.ServiceRequestID,
		s.Code,
		s.Version,
		s.CalculatedAmount,
		s.Volume,
		s.AmountDue,
		s.CcdCaseNumber,
		s.UpdatedAt,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *Fee) Pointers() []interface{} {
	return []interface{}{
		&s.FeeID,
		&s.ServiceRequestID,
		&s.Code,
		&s.Version,
		&s.CalculatedAmount,
		&s.Volume,
		&s.AmountDue,
		&s.CcdCaseNumber,
		&s.UpdatedAt,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *Fee) View() reform.View {
	return FeeTable
}

// Table returns Table object for that record.
func (s *Fee) Table() reform.Table {
	return FeeTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *Fee) PKValue() interface{} {
	return s.FeeID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *Fee) PKPointer() interface{} {
	return &s.FeeID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *Fee) HasPK() bool {
	return s.FeeID != FeeTable.z[FeeTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *Fee) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.FeeID = int64(i64)
	} else {
		s.FeeID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = FeeTable
	_ reform.Struct = new(Fee)
	_ reform.Table  = FeeTable
	_ reform.Record = new(Fee)
	_ fmt.Stringer  = new(Fee)
)

func init() {
	parse.AssertUpToDate(&ServiceRequestTable.s, new(ServiceRequest))
	parse.AssertUpToDate(&FeeTable.s, new(Fee))
}
