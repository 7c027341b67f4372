package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/infradyn/delivery-engine/pkg/apperrors"
	"github.com/infradyn/delivery-engine/pkg/readiness"
	"github.com/infradyn/delivery-engine/pkg/services"
	"github.com/infradyn/delivery-engine/pkg/taxonomy"
)

type mockReadinessService struct {
	disciplines []readiness.DisciplineSummaryRow
	classes     []readiness.MaterialClassRow
	weeks       []readiness.WeeklyBatchRow
	err         error

	gotDiscipline string
	gotClass      string
	gotAsOf       time.Time
}

func (m *mockReadinessService) DisciplineSummary(_ context.Context, _ uuid.UUID, asOf time.Time) ([]readiness.DisciplineSummaryRow, error) {
	m.gotAsOf = asOf
	return m.disciplines, m.err
}

func (m *mockReadinessService) MaterialClassSummary(_ context.Context, _ uuid.UUID, discipline string, asOf time.Time) ([]readiness.MaterialClassRow, error) {
	m.gotDiscipline = discipline
	m.gotAsOf = asOf
	return m.classes, m.err
}

func (m *mockReadinessService) WeeklyBatches(_ context.Context, _ uuid.UUID, discipline, class string, asOf time.Time) ([]readiness.WeeklyBatchRow, error) {
	m.gotDiscipline = discipline
	m.gotClass = class
	m.gotAsOf = asOf
	return m.weeks, m.err
}

var _ services.ReadinessService = (*mockReadinessService)(nil)

func newReadinessMux(svc services.ReadinessService) *http.ServeMux {
	mux := http.NewServeMux()
	NewReadinessHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestReadinessHandler_Disciplines(t *testing.T) {
	svc := &mockReadinessService{disciplines: []readiness.DisciplineSummaryRow{
		{Discipline: taxonomy.Structural, Status: readiness.StatusLate},
	}}
	mux := newReadinessMux(svc)

	url := fmt.Sprintf("/api/projects/%s/readiness/disciplines?as_of=2025-06-18", uuid.New())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), svc.gotAsOf)

	var body struct {
		AsOf time.Time         `json:"asOf"`
		Rows []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Rows, 1)
}

func TestReadinessHandler_Disciplines_InvalidProjectID(t *testing.T) {
	mux := newReadinessMux(&mockReadinessService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/not-a-uuid/readiness/disciplines", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadinessHandler_Disciplines_InvalidAsOf(t *testing.T) {
	mux := newReadinessMux(&mockReadinessService{})

	url := fmt.Sprintf("/api/projects/%s/readiness/disciplines?as_of=junk", uuid.New())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadinessHandler_MaterialClasses_PassesDiscipline(t *testing.T) {
	svc := &mockReadinessService{}
	mux := newReadinessMux(svc)

	url := fmt.Sprintf("/api/projects/%s/readiness/disciplines/MEP/classes", uuid.New())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MEP", svc.gotDiscipline)
}

func TestReadinessHandler_MaterialClasses_UnknownDiscipline(t *testing.T) {
	svc := &mockReadinessService{err: fmt.Errorf("%w: %q", apperrors.ErrUnknownDiscipline, "nope")}
	mux := newReadinessMux(svc)

	url := fmt.Sprintf("/api/projects/%s/readiness/disciplines/nope/classes", uuid.New())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadinessHandler_WeeklyBatches_PassesClass(t *testing.T) {
	svc := &mockReadinessService{}
	mux := newReadinessMux(svc)

	url := fmt.Sprintf("/api/projects/%s/readiness/disciplines/ENVELOPE/weeks?class=Curtain+Walling", uuid.New())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ENVELOPE", svc.gotDiscipline)
	assert.Equal(t, "Curtain Walling", svc.gotClass)
}

func TestReadinessHandler_InternalError(t *testing.T) {
	svc := &mockReadinessService{err: errors.New("connection refused")}
	mux := newReadinessMux(svc)

	url := fmt.Sprintf("/api/projects/%s/readiness/disciplines", uuid.New())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused", "internal details must not leak")
}
