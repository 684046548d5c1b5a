package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/01moynul/strongx-golang/internal/auth"
	"github.com/01moynul/strongx-golang/internal/middleware"
	"github.com/01moynul/strongx-golang/internal/models"
)

const (
	memberID = "5f0c8f8e-6a53-4c41-9d39-3f4c5b0b0a01"
	planID   = "8a1d6a5c-1b1e-4d0f-a4b5-0e2f5b7c9d02"
)

var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	h      *Handlers
	mock   sqlmock.Sqlmock
	router *gin.Engine
}

// newTestEnv wires handlers to a sqlmock DB. Requests run as userID "u-1".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := clockwork.NewFakeClockAt(testNow)
	tokens := auth.NewTokenManager("handlers-test-secret", time.Hour, clock)
	h := New(db, tokens, nil, clock)

	r := gin.New()
	r.Use(middleware.ErrorHandler(true), func(c *gin.Context) {
		c.Set(middleware.CtxUserID, "u-1")
		c.Set(middleware.CtxUserRole, models.RoleSuperAdmin)
		c.Next()
	})
	return &testEnv{h: h, mock: mock, router: r}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func memberRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "member_code", "first_name", "last_name", "email", "phone", "date_of_birth", "gender",
		"address", "emergency_contact", "profile_image", "status", "join_date", "created_at", "updated_at",
	}).AddRow(memberID, "SX-0001", "Jane", "Doe", "jane@example.com", "0123456789", nil, "FEMALE",
		nil, nil, nil, models.MemberInactive, testNow, testNow, testNow)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	e.router.GET("/api/health", e.h.Health)

	w := e.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func userRow(hash string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "is_active", "created_at", "updated_at"}).
		AddRow("u-1", "admin@strongx.com", hash, "Super Admin", models.RoleSuperAdmin, active, testNow, testNow)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		rows     *sqlmock.Rows
		want     int
		wantErr  string
	}{
		{"ok", "admin123", userRow(string(hash), true), http.StatusOK, ""},
		{"wrong password", "nope", userRow(string(hash), true), http.StatusUnauthorized, "Invalid credentials"},
		{"deactivated", "admin123", userRow(string(hash), false), http.StatusUnauthorized, "Account is deactivated"},
		{"unknown email", "admin123", sqlmock.NewRows([]string{"id"}), http.StatusUnauthorized, "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.router.POST("/login", e.h.Login)
			e.mock.ExpectQuery(`FROM users WHERE email = \?`).WithArgs("admin@strongx.com").WillReturnRows(tt.rows)

			w := e.do(http.MethodPost, "/login", gin.H{"email": "admin@strongx.com", "password": tt.password})
			require.Equal(t, tt.want, w.Code, w.Body.String())

			body := decodeBody(t, w)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
				return
			}
			assert.NotEmpty(t, body["token"])
			user := body["user"].(map[string]any)
			assert.Equal(t, "admin@strongx.com", user["email"])
			assert.NotContains(t, user, "passwordHash")
		})
	}
}

func TestLoginValidation(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/login", e.h.Login)

	w := e.do(http.MethodPost, "/login", gin.H{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Len(t, body["details"], 2)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/register", e.h.Register)
	e.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \?\)`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	w := e.do(http.MethodPost, "/register", gin.H{"email": "admin@strongx.com", "password": "password1", "name": "Someone"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, w)["error"])
}

func TestCreateMemberAssignsCode(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/members", e.h.CreateMember)

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	e.mock.ExpectExec(`INSERT INTO members`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectCommit()

	w := e.do(http.MethodPost, "/members", gin.H{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com", "phone": "0123456789",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "SX-0042", data["memberId"])
	assert.Equal(t, models.MemberInactive, data["status"])
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/members", e.h.CreateMember)

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	e.mock.ExpectExec(`INSERT INTO members`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'jane@example.com' for key 'members.uq_email'"})
	e.mock.ExpectRollback()

	w := e.do(http.MethodPost, "/members", gin.H{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com", "phone": "0123456789",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "A record with this email already exists", decodeBody(t, w)["error"])
}

func TestCreateMemberValidation(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/members", e.h.CreateMember)

	w := e.do(http.MethodPost, "/members", gin.H{
		"firstName": "J", "lastName": "Doe", "email": "jane@example.com", "phone": "123", "gender": "ROBOT",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := map[string]bool{}
	for _, d := range decodeBody(t, w)["details"].([]any) {
		fields[d.(map[string]any)["field"].(string)] = true
	}
	assert.True(t, fields["firstName"])
	assert.True(t, fields["phone"])
	assert.True(t, fields["gender"])
}

func TestGetMemberNotFound(t *testing.T) {
	e := newTestEnv(t)
	e.router.GET("/members/:id", e.h.GetMember)
	e.mock.ExpectQuery(`FROM members WHERE id = \?`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := e.do(http.MethodGet, "/members/"+memberID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Member not found", decodeBody(t, w)["error"])
}

func TestGetMembersPaginates(t *testing.T) {
	e := newTestEnv(t)
	e.router.GET("/members", e.h.GetMembers)

	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members m WHERE 1=1 AND m.status = \?`).
		WithArgs(models.MemberActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	e.mock.ExpectQuery(`ORDER BY m.first_name ASC LIMIT \? OFFSET \?`).
		WithArgs(models.MemberActive, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "member_code", "first_name", "last_name", "email", "phone", "status", "join_date", "profile_image", "name", "end_date",
		}).AddRow(memberID, "SX-0001", "Jane", "Doe", "jane@example.com", "0123456789", models.MemberActive, testNow, nil, "Premium", testNow.AddDate(0, 0, 30)))

	w := e.do(http.MethodGet, "/members?status=ACTIVE&page=2&sortBy=firstName&sortOrder=asc", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	rows := body["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Premium", rows[0].(map[string]any)["currentPlan"])

	page := body["pagination"].(map[string]any)
	assert.EqualValues(t, 25, page["total"])
	assert.EqualValues(t, 3, page["totalPages"])
	assert.Equal(t, true, page["hasNextPage"])
	assert.Equal(t, true, page["hasPrevPage"])
}

func TestGetMembersRejectsBadSort(t *testing.T) {
	e := newTestEnv(t)
	e.router.GET("/members", e.h.GetMembers)

	w := e.do(http.MethodGet, "/members?sortBy=password", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/members?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func planRow(active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "slug", "description", "price", "duration_days", "features", "is_active", "created_at", "updated_at"}).
		AddRow(planID, "Premium", "premium", nil, 79.0, 30, `["Pool"]`, active, testNow, testNow)
}

func TestAddMembership(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/members/:id/memberships", e.h.AddMembership)

	start := testNow.AddDate(0, 0, 3)

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`SELECT id FROM members WHERE id = \? FOR UPDATE`).WithArgs(memberID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(memberID))
	e.mock.ExpectQuery(`FROM membership_plans WHERE id = \?`).WithArgs(planID).WillReturnRows(planRow(true))
	e.mock.ExpectExec(`UPDATE membership_history`).
		WithArgs(models.MembershipCancelled, testNow, memberID, models.MembershipActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectExec(`INSERT INTO membership_history`).
		WithArgs(sqlmock.AnyArg(), memberID, planID, start, start.AddDate(0, 0, 30), models.MembershipActive, testNow, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectExec(`UPDATE members SET status = \?`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectCommit()

	w := e.do(http.MethodPost, "/members/"+memberID+"/memberships", gin.H{"planId": planID, "startDate": start})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, models.MembershipActive, data["status"])
	assert.Equal(t, "Premium", data["plan"].(map[string]any)["name"])
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestAddMembershipUnknownMember(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/members/:id/memberships", e.h.AddMembership)

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	e.mock.ExpectRollback()

	w := e.do(http.MethodPost, "/members/"+memberID+"/memberships", gin.H{"planId": planID})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestCreatePaymentValidation(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/payments", e.h.CreatePayment)

	w := e.do(http.MethodPost, "/payments", gin.H{"memberId": "nope", "amount": -5, "paymentMethod": "CHEQUE"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decodeBody(t, w)["details"], 3)
}

func TestCreatePaymentRecordsAndRenews(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/payments", e.h.CreatePayment)

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`FROM members WHERE id = \? FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_code", "first_name", "last_name", "email", "phone"}).
			AddRow(memberID, "SX-0001", "Jane", "Doe", "jane@example.com", "0123456789"))
	e.mock.ExpectQuery(`FROM membership_plans`).WillReturnRows(planRow(true))
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices`).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	e.mock.ExpectExec(`INSERT INTO payments`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectExec(`INSERT INTO invoices`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectExec(`UPDATE membership_history`).WillReturnResult(sqlmock.NewResult(0, 0))
	e.mock.ExpectExec(`INSERT INTO membership_history`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectExec(`UPDATE members SET status`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectCommit()

	w := e.do(http.MethodPost, "/payments", gin.H{
		"memberId": memberID, "amount": 79, "paymentMethod": "CARD", "planId": planID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "PAY-0001", data["paymentId"])
	assert.Equal(t, "INV-0001", data["invoiceNumber"])
	assert.Equal(t, models.MembershipActive, data["membership"].(map[string]any)["status"])
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestRefundPaymentRejectsPending(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/payments/:id/refund", e.h.RefundPayment)

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`SELECT status FROM payments`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.PaymentPending))
	e.mock.ExpectRollback()

	w := e.do(http.MethodPost, "/payments/pay-1/refund", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only completed payments can be refunded", decodeBody(t, w)["error"])
}

func planWithCountRow(active int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "slug", "description", "price", "duration_days", "features", "is_active", "created_at", "updated_at", "active"}).
		AddRow(planID, "Premium", "premium", nil, 79.0, 30, `[]`, true, testNow, testNow, active)
}

func TestDeletePlanDeactivatesWhenInUse(t *testing.T) {
	e := newTestEnv(t)
	e.router.DELETE("/plans/:id", e.h.DeletePlan)

	e.mock.ExpectQuery(`FROM membership_plans p WHERE p.id = \?`).WillReturnRows(planWithCountRow(2))
	e.mock.ExpectExec(`UPDATE membership_plans SET is_active = FALSE`).WillReturnResult(sqlmock.NewResult(0, 1))

	w := e.do(http.MethodDelete, "/plans/"+planID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["deactivated"])
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestDeletePlanHardDeletes(t *testing.T) {
	e := newTestEnv(t)
	e.router.DELETE("/plans/:id", e.h.DeletePlan)

	e.mock.ExpectQuery(`FROM membership_plans p`).WillReturnRows(planWithCountRow(0))
	e.mock.ExpectExec(`DELETE FROM membership_plans WHERE id = \?`).WillReturnResult(sqlmock.NewResult(0, 1))

	w := e.do(http.MethodDelete, "/plans/"+planID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decodeBody(t, w), "deactivated")
}

func TestDeletePlanStillReferenced(t *testing.T) {
	e := newTestEnv(t)
	e.router.DELETE("/plans/:id", e.h.DeletePlan)

	e.mock.ExpectQuery(`FROM membership_plans p`).WillReturnRows(planWithCountRow(0))
	e.mock.ExpectExec(`DELETE FROM membership_plans`).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})

	w := e.do(http.MethodDelete, "/plans/"+planID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreatePlanSlug(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/plans", e.h.CreatePlan)

	e.mock.ExpectExec(`INSERT INTO membership_plans`).
		WithArgs(sqlmock.AnyArg(), "Annual Premium", "annual-premium", nil, 790.0, 365, sqlmock.AnyArg(), true, testNow, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := e.do(http.MethodPost, "/plans", gin.H{"name": "Annual Premium", "price": 790, "duration": 365})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "annual-premium", data["slug"])
	assert.Equal(t, []any{}, data["features"])
}

func TestUpdateMemberBuildsPartialUpdate(t *testing.T) {
	e := newTestEnv(t)
	e.router.PUT("/members/:id", e.h.UpdateMember)

	e.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members WHERE id = \?\)`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	e.mock.ExpectExec(`UPDATE members SET phone = \?, status = \?, updated_at = \? WHERE id = \?`).
		WithArgs("0987654321", models.MemberSuspended, testNow, memberID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectQuery(`FROM members WHERE id = \?`).WillReturnRows(memberRow())

	w := e.do(http.MethodPut, "/members/"+memberID, gin.H{"phone": "0987654321", "status": "SUSPENDED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestDeleteMemberSoftDeletes(t *testing.T) {
	e := newTestEnv(t)
	e.router.DELETE("/members/:id", e.h.DeleteMember)

	e.mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	e.mock.ExpectExec(`UPDATE members SET status = \?, updated_at = \? WHERE id = \?`).
		WithArgs(models.MemberInactive, testNow, memberID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := e.do(http.MethodDelete, "/members/"+memberID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestCreateStaffAndTrainerCodes(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/staff", e.h.CreateStaff)
	e.router.POST("/trainers", e.h.CreateTrainer)

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff`).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(2))
	e.mock.ExpectExec(`INSERT INTO staff`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectCommit()

	w := e.do(http.MethodPost, "/staff", gin.H{
		"firstName": "Sam", "lastName": "Lee", "email": "sam@strongx.com", "phone": "0123456789", "role": "Reception",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "STF-0003", decodeBody(t, w)["data"].(map[string]any)["staffId"])

	e.mock.ExpectBegin()
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trainers`).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	e.mock.ExpectExec(`INSERT INTO trainers`).WillReturnResult(sqlmock.NewResult(0, 1))
	e.mock.ExpectCommit()

	w = e.do(http.MethodPost, "/trainers", gin.H{
		"firstName": "Alex", "lastName": "Johnson", "email": "alex@strongx.com", "phone": "0123456789",
		"experience": 0, "specialization": []string{"HIIT"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "TRN-0001", data["trainerId"])
	assert.Equal(t, []any{}, data["certification"])
}

func TestCreateTrainerRequiresExperience(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/trainers", e.h.CreateTrainer)

	w := e.do(http.MethodPost, "/trainers", gin.H{
		"firstName": "Alex", "lastName": "Johnson", "email": "alex@strongx.com", "phone": "0123456789",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStaffFiltersInactive(t *testing.T) {
	e := newTestEnv(t)
	e.router.GET("/staff", e.h.GetStaff)

	e.mock.ExpectQuery(`FROM staff WHERE is_active = TRUE ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	w := e.do(http.MethodGet, "/staff", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decodeBody(t, w)["data"])

	e.mock.ExpectQuery(`FROM staff ORDER BY created_at DESC`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	w = e.do(http.MethodGet, "/staff?includeInactive=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestAIDisabled(t *testing.T) {
	e := newTestEnv(t)
	e.router.GET("/ai/motivation", e.h.GetMotivation)
	e.router.POST("/ai/workout-plan", e.h.GenerateWorkoutPlan)

	assert.Equal(t, http.StatusServiceUnavailable, e.do(http.MethodGet, "/ai/motivation", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, e.do(http.MethodPost, "/ai/workout-plan", gin.H{"goal": "x"}).Code)
}

func TestUploadRejectsNonImage(t *testing.T) {
	e := newTestEnv(t)
	u := Uploader{Dir: t.TempDir(), BaseURL: "http://localhost:8080/"}
	e.router.POST("/uploads", u.UploadFile)

	upload := func(name string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("data"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		e.router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, upload("script.sh").Code)

	w := upload("avatar.PNG")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Regexp(t, `^http://localhost:8080/uploads/[0-9a-f-]{36}\.png$`, decodeBody(t, w)["url"])
}

func TestSetClause(t *testing.T) {
	var s setClause
	s.add("name", "x")
	s.add("price", 10.0)

	query, args := s.query("membership_plans", testNow, "id-1")
	assert.Equal(t, "UPDATE membership_plans SET name = ?, price = ?, updated_at = ? WHERE id = ?", query)
	assert.Equal(t, []any{"x", 10.0, testNow, "id-1"}, args)
}

func TestDaysRemaining(t *testing.T) {
	assert.Equal(t, 1, daysRemaining(testNow.Add(2*time.Hour), testNow))
	assert.Equal(t, 7, daysRemaining(testNow.Add(7*24*time.Hour), testNow))
	assert.Equal(t, 0, daysRemaining(testNow, testNow))
}

func TestPeriodStarts(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), startOfDay(now))
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), startOfMonth(now))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), startOfYear(now))
}

func TestMalformedInputIsBadRequest(t *testing.T) {
	e := newTestEnv(t)
	e.router.POST("/members", e.h.CreateMember)
	e.router.GET("/members", e.h.GetMembers)
	e.router.GET("/payments", e.h.GetPayments)

	w := e.do(http.MethodPost, "/members", gin.H{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com", "phone": "0123456789",
		"dateOfBirth": "1990-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	for _, path := range []string{"/members?page=abc", "/payments?limit=ten", "/payments?startDate=2025-01-01"} {
		w := e.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "Invalid request parameter", decodeBody(t, w)["error"], path)
	}
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestDeadlockIsRetryable(t *testing.T) {
	e := newTestEnv(t)
	e.router.DELETE("/members/:id", e.h.DeleteMember)

	e.mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})

	w := e.do(http.MethodDelete, "/members/"+memberID, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Database is busy, please retry", decodeBody(t, w)["error"])
}

func TestGetMembersSearchIsLiteral(t *testing.T) {
	e := newTestEnv(t)
	e.router.GET("/members", e.h.GetMembers)

	term := `%\_%`
	e.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members m WHERE 1=1 AND \(m.first_name LIKE \? ESCAPE`).
		WithArgs(term, term, term, term, term).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	e.mock.ExpectQuery(`LIMIT \? OFFSET \?`).
		WithArgs(term, term, term, term, term, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := e.do(http.MethodGet, "/members?search=_", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, e.mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%jane%", containsPattern("jane"))
	assert.Equal(t, `%50\%%`, containsPattern("50%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\tmp%`, containsPattern(`c:\tmp`))
}
