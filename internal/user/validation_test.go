package user

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/user-management-api/internal/apperror"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %T", err)
	require.Equal(t, apperror.KindInvalidRequest, appErr.Kind)
	fields := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	return fields
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"admin@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"admin", false},
		{"admin@localhost", false},
		{"@example.com", false},
		{"Admin <admin@example.com>", false},
		{"admin@example.com ", false},
		{strings.Repeat("a", 250) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		wantFields []string
	}{
		{"valid", "admin@example.com", "testAdmin@2025", nil},
		{"exactly eight", "admin@example.com", "12345678", nil},
		{"seven characters", "admin@example.com", "1234567", []string{"password"}},
		{"too long for bcrypt", "admin@example.com", strings.Repeat("x", 73), []string{"password"}},
		{"both missing", "", "", []string{"email", "password"}},
		{"bad email", "nope", "testAdmin@2025", []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFields, fieldsOf(t, ValidateCredentials(tt.email, tt.password)))
		})
	}
}

func TestCreateInput_ValidateReportsEveryField(t *testing.T) {
	err := CreateInput{}.Validate()
	assert.Equal(t, []string{"firstname", "lastname", "email", "password", "birthDate"}, fieldsOf(t, err))
}

func TestUpdateInput_Validate(t *testing.T) {
	tests := []struct {
		name       string
		in         UpdateInput
		wantFields []string
	}{
		{"empty update", UpdateInput{}, nil},
		{"two-letter name", UpdateInput{FirstName: ptr("Al")}, nil},
		{"one-letter firstname", UpdateInput{FirstName: ptr("A")}, []string{"firstname"}},
		{"one-letter lastname", UpdateInput{LastName: ptr("B")}, []string{"lastname"}},
		{"bad email", UpdateInput{Email: ptr("x@")}, []string{"email"}},
		{"short password", UpdateInput{Password: ptr("short")}, []string{"password"}},
		{"zero birth date", UpdateInput{BirthDate: &Date{}}, []string{"birthDate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFields, fieldsOf(t, tt.in.Validate()))
		})
	}
}

func TestParseListParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := ParseListParams(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, ListParams{Page: 1, Limit: 10, SortBy: SortByID, SortOrder: SortAsc}, p)
		assert.Equal(t, 0, p.Offset())
	})

	t.Run("all set", func(t *testing.T) {
		q := url.Values{
			"page":      {"3"},
			"limit":     {"25"},
			"sortBy":    {"birthDate"},
			"sortOrder": {"desc"},
			"search":    {"  ada "},
		}
		p, err := ParseListParams(q)
		require.NoError(t, err)
		assert.Equal(t, ListParams{Page: 3, Limit: 25, SortBy: SortByBirthDate, SortOrder: SortDesc, Search: "ada"}, p)
		assert.Equal(t, 50, p.Offset())
		assert.Equal(t, "birth_date", p.SortBy.Column())
		assert.Equal(t, "DESC", p.SortOrder.SQL())
	})

	invalid := []struct {
		name  string
		query url.Values
		field string
	}{
		{"page zero", url.Values{"page": {"0"}}, "page"},
		{"page not a number", url.Values{"page": {"two"}}, "page"},
		{"limit zero", url.Values{"limit": {"0"}}, "limit"},
		{"limit over max", url.Values{"limit": {"101"}}, "limit"},
		{"unknown sort field", url.Values{"sortBy": {"password_hash"}}, "sortBy"},
		{"sql in sort field", url.Values{"sortBy": {"id; DROP TABLE users"}}, "sortBy"},
		{"bad sort order", url.Values{"sortOrder": {"sideways"}}, "sortOrder"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListParams(tt.query)
			assert.Equal(t, []string{tt.field}, fieldsOf(t, err))
		})
	}
}
