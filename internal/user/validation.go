package user

import (
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/redmonkez12/user-management-api/internal/apperror"
)

const (
	MinPasswordLength = 8
	// bcrypt rejects longer inputs
	MaxPasswordLength = 72
	MinNameLength     = 2

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type SortField string

const (
	SortByID        SortField = "id"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByEmail     SortField = "email"
	SortByBirthDate SortField = "birthDate"
)

var sortColumns = map[SortField]string{
	SortByID:        "id",
	SortByCreatedAt: "created_at",
	SortByUpdatedAt: "updated_at",
	SortByEmail:     "email",
	SortByBirthDate: "birth_date",
}

// Column returns the users column backing f.
func (f SortField) Column() string {
	if col, ok := sortColumns[f]; ok {
		return col
	}
	return "id"
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) SQL() string {
	if o == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// validator collects field errors in declaration order.
type validator struct {
	details []apperror.FieldError
}

func (v *validator) add(field, message string) {
	v.details = append(v.details, apperror.FieldError{Field: field, Message: message})
}

func (v *validator) err() error {
	if len(v.details) == 0 {
		return nil
	}
	return apperror.InvalidRequest(v.details...)
}

func (v *validator) requireString(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.add(field, field+" is required")
		return false
	}
	return true
}

func (v *validator) email(field, value string) {
	if !IsValidEmail(value) {
		v.add(field, field+" must be a valid email")
	}
}

func (v *validator) minLength(field, value string, n int) {
	if len([]rune(value)) < n {
		v.add(field, field+" must be at least "+strconv.Itoa(n)+" characters")
	}
}

func (v *validator) password(field, value string) {
	v.minLength(field, value, MinPasswordLength)
	if len(value) > MaxPasswordLength {
		v.add(field, field+" must be at most "+strconv.Itoa(MaxPasswordLength)+" bytes")
	}
}

// IsValidEmail accepts a bare address with a dotted domain.
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at+1:], ".")
}

// ValidateCredentials checks a login request body.
func ValidateCredentials(email, password string) error {
	var v validator
	if v.requireString("email", email) {
		v.email("email", email)
	}
	if password == "" {
		v.add("password", "password is required")
	} else {
		v.password("password", password)
	}
	return v.err()
}

func (in CreateInput) Validate() error {
	var v validator
	v.requireString("firstname", in.FirstName)
	v.requireString("lastname", in.LastName)
	if v.requireString("email", in.Email) {
		v.email("email", in.Email)
	}
	if in.Password == "" {
		v.add("password", "password is required")
	} else {
		v.password("password", in.Password)
	}
	if in.BirthDate == nil || in.BirthDate.IsZero() {
		v.add("birthDate", "birthDate is required")
	}
	return v.err()
}

func (in UpdateInput) Validate() error {
	var v validator
	if in.FirstName != nil {
		v.minLength("firstname", *in.FirstName, MinNameLength)
	}
	if in.LastName != nil {
		v.minLength("lastname", *in.LastName, MinNameLength)
	}
	if in.Email != nil {
		v.email("email", *in.Email)
	}
	if in.Password != nil {
		v.password("password", *in.Password)
	}
	if in.BirthDate != nil && in.BirthDate.IsZero() {
		v.add("birthDate", "birthDate must be a valid date")
	}
	return v.err()
}

// ParseListParams reads page, limit, sortBy, sortOrder and search from a
// query string, applying defaults for absent values.
func ParseListParams(q url.Values) (ListParams, error) {
	p := ListParams{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    SortByID,
		SortOrder: SortAsc,
		Search:    strings.TrimSpace(q.Get("search")),
	}
	var v validator

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			v.add("page", "page must be an integer >= 1")
		} else {
			p.Page = n
		}
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			v.add("limit", "limit must be an integer between 1 and "+strconv.Itoa(MaxLimit))
		} else {
			p.Limit = n
		}
	}

	if s := q.Get("sortBy"); s != "" {
		if _, ok := sortColumns[SortField(s)]; !ok {
			v.add("sortBy", "sortBy must be one of id, updatedAt, createdAt, email, birthDate")
		} else {
			p.SortBy = SortField(s)
		}
	}

	if s := q.Get("sortOrder"); s != "" {
		switch SortOrder(s) {
		case SortAsc, SortDesc:
			p.SortOrder = SortOrder(s)
		default:
			v.add("sortOrder", "sortOrder must be asc or desc")
		}
	}

	if err := v.err(); err != nil {
		return ListParams{}, err
	}
	return p, nil
}
