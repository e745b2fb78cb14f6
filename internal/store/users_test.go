package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dkroy/storefront-golang/internal/models"
)

var (
	emailCheckSQL  = regexp.QuoteMeta("SELECT 1 FROM customers WHERE LOWER(email) = LOWER(?)")
	nextUserIDSQL  = regexp.QuoteMeta("SELECT COALESCE(MAX(uid), 10000) + 1 FROM users")
	insertUserSQL  = regexp.QuoteMeta("INSERT INTO users (uid, password_hash, role)")
	insertCustSQL  = regexp.QuoteMeta("INSERT INTO customers (cid, name, email)")
	loginByUIDSQL  = regexp.QuoteMeta("SELECT uid, role, password_hash FROM users WHERE uid = ?")
	loginByMailSQL = regexp.QuoteMeta("WHERE LOWER(c.email) = LOWER(?)")
)

func TestSignupCreatesUserAndCustomer(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(emailCheckSQL).WithArgs("amy@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectBegin()
	mock.ExpectQuery(nextUserIDSQL).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(int64(10001)))
	mock.ExpectExec(insertUserSQL).
		WithArgs(int64(10001), sqlmock.AnyArg(), models.RoleCustomer).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertCustSQL).
		WithArgs(int64(10001), "Amy", "amy@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	uid, err := st.Signup(context.Background(), "Amy", "amy@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, int64(10001), uid)
	expectationsMet(t, mock)
}

func TestSignupRejectsKnownEmail(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(emailCheckSQL).WithArgs("amy@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	_, err := st.Signup(context.Background(), "Amy", "amy@example.com", "hunter22")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	expectationsMet(t, mock)
}

func TestSignupRetriesDuplicateUID(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(emailCheckSQL).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	mock.ExpectBegin()
	mock.ExpectQuery(nextUserIDSQL).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(int64(10005)))
	mock.ExpectExec(insertUserSQL).
		WillReturnError(&mysqlDuplicate)
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(nextUserIDSQL).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(int64(10006)))
	mock.ExpectExec(insertUserSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertCustSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	uid, err := st.Signup(context.Background(), "Amy", "amy@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, int64(10006), uid)
	expectationsMet(t, mock)
}

func TestAuthenticateByEmail(t *testing.T) {
	st, mock := newTestStore(t)

	var password models.Password
	require.NoError(t, password.Set("hunter22"))

	mock.ExpectQuery(loginByMailSQL).WithArgs("Amy@Example.com").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "role", "password_hash"}).
			AddRow(int64(10001), models.RoleCustomer, password.Hash))

	user, err := st.Authenticate(context.Background(), "Amy@Example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, int64(10001), user.ID)
	require.Equal(t, models.RoleCustomer, user.Role)
	expectationsMet(t, mock)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	st, mock := newTestStore(t)

	var password models.Password
	require.NoError(t, password.Set("hunter22"))

	mock.ExpectQuery(loginByUIDSQL).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "role", "password_hash"}).
			AddRow(int64(1), models.RoleSales, password.Hash))

	_, err := st.Authenticate(context.Background(), "1", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	expectationsMet(t, mock)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(loginByUIDSQL).WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "role", "password_hash"}))

	_, err := st.Authenticate(context.Background(), "42", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	expectationsMet(t, mock)
}
