package domain

import "strconv"

// Wire names of the export fields.
const (
	FieldMaskedID         = "tc_masked"
	FieldFirstName        = "ad"
	FieldLastName         = "soyad"
	FieldNationality      = "uyruk"
	FieldEducation        = "egitim"
	FieldEmployeeCategory = "calisan_kategori"
	FieldDutyCategory     = "gorev_kategori"
	FieldJobCode          = "meslek_kodu"
	FieldPayroll          = "bordro"
	FieldTitle            = "unvan"
	FieldDepartment       = "departman"
	FieldWorkplace        = "isyeri"
	FieldPosition         = "pozisyon"
	FieldStatus           = "status"
	FieldStartDate        = "start_date"
	FieldEndDate          = "end_date"
	FieldDateKey          = "date_key"
	FieldDurationSec      = "duration_sec"
	FieldErrorComment     = "error_comment"
	FieldExitReason       = "cikis_nedeni"
	FieldGender           = "cinsiyet"
	FieldHireDate         = "ise_giris_tarihi"
	FieldExitDate         = "ise_cikis_tarihi"
	FieldMissingDays      = "eksik_gun_sayisi"
	FieldDepartmentClean  = "departman_clean"
	FieldPositionClean    = "pozisyon_clean"
)

// DerivedFields are computed by the normalizer and appended to exports.
var DerivedFields = []string{FieldDepartmentClean, FieldPositionClean}

// Record is a normalized RPA/HR transaction.
type Record struct {
	MaskedID         string `json:"tc_masked,omitempty"`
	FirstName        string `json:"ad,omitempty"`
	LastName         string `json:"soyad,omitempty"`
	Nationality      string `json:"uyruk,omitempty"`
	Education        string `json:"egitim,omitempty"`
	EmployeeCategory string `json:"calisan_kategori,omitempty"`
	DutyCategory     string `json:"gorev_kategori,omitempty"`
	JobCode          string `json:"meslek_kodu,omitempty"`
	Payroll          string `json:"bordro,omitempty"`
	Title            string `json:"unvan,omitempty"`

	Department string `json:"departman,omitempty"`
	Workplace  string `json:"isyeri,omitempty"`
	Position   string `json:"pozisyon,omitempty"`

	Status       Status `json:"status"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	DateKey      string `json:"date_key"`
	DurationSec  int    `json:"duration_sec"`
	ErrorComment string `json:"error_comment,omitempty"`

	// Exit flow only.
	ExitReason  string `json:"cikis_nedeni,omitempty"`
	Gender      string `json:"cinsiyet,omitempty"`
	HireDate    string `json:"ise_giris_tarihi,omitempty"`
	ExitDate    string `json:"ise_cikis_tarihi,omitempty"`
	MissingDays int    `json:"eksik_gun_sayisi"`

	DepartmentClean string `json:"departman_clean"`
	PositionClean   string `json:"pozisyon_clean"`

	// Raw is the source object the record was normalized from.
	Raw RawRecord `json:"-"`
}

// Field returns a field by its wire name. Unknown typed fields fall back to
// the raw source object, so any exported column can be filtered or searched.
func (r *Record) Field(name string) string {
	switch name {
	case FieldMaskedID:
		return r.MaskedID
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldNationality:
		return r.Nationality
	case FieldEducation:
		return r.Education
	case FieldEmployeeCategory:
		return r.EmployeeCategory
	case FieldDutyCategory:
		return r.DutyCategory
	case FieldJobCode:
		return r.JobCode
	case FieldPayroll:
		return r.Payroll
	case FieldTitle:
		return r.Title
	case FieldDepartment:
		return r.Department
	case FieldWorkplace:
		return r.Workplace
	case FieldPosition:
		return r.Position
	case FieldStatus:
		return string(r.Status)
	case FieldStartDate:
		return r.StartDate
	case FieldEndDate:
		return r.EndDate
	case FieldDateKey:
		return r.DateKey
	case FieldDurationSec:
		return strconv.Itoa(r.DurationSec)
	case FieldErrorComment:
		return r.ErrorComment
	case FieldExitReason:
		return r.ExitReason
	case FieldGender:
		return r.Gender
	case FieldHireDate:
		return r.HireDate
	case FieldExitDate:
		return r.ExitDate
	case FieldMissingDays:
		return strconv.Itoa(r.MissingDays)
	case FieldDepartmentClean:
		return r.DepartmentClean
	case FieldPositionClean:
		return r.PositionClean
	default:
		return r.Raw.Text(name)
	}
}

// IsCompleted reports a successful transaction.
func (r *Record) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// IsError reports a failed transaction.
func (r *Record) IsError() bool {
	return r.Status == StatusError
}
