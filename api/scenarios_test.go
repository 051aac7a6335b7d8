/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario loads through the coordinator and ends in a
	consistent ledger with the expected balances.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/labour-ledger/ledger"
)

func loadScenario(t *testing.T, s *testServer, id string) map[string]string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	labours, err := s.h.Ledger.ListLabours(context.Background(), false)
	require.NoError(t, err)
	balances := make(map[string]string, len(labours))
	for _, l := range labours {
		balances[l.Name] = l.Balance.String()

		v, err := s.h.Ledger.Verify(context.Background(), l.ID)
		require.NoError(t, err)
		assert.True(t, v.Consistent(), "scenario %s left %s inconsistent", id, l.Name)
	}
	return balances
}

func TestScenario_BackdatedPayment(t *testing.T) {
	// GIVEN: The backdated-payment scenario
	// WHEN: Loading it
	// THEN: The Jan 2 payment has cascaded into Jan 3

	s := setupTestServer(t)
	balances := loadScenario(t, s, "backdated-payment")
	assert.Equal(t, map[string]string{"Ramesh Kumar": "110"}, balances)
}

func TestScenario_WeeklyWages(t *testing.T) {
	s := setupTestServer(t)
	balances := loadScenario(t, s, "weekly-wages")
	assert.Equal(t, map[string]string{"Sunita Devi": "425"}, balances)
}

func TestScenario_SiteCrew(t *testing.T) {
	s := setupTestServer(t)
	balances := loadScenario(t, s, "site-crew")
	assert.Equal(t, map[string]string{
		"Mohan Lal":  "800",
		"Asha Bai":   "200",
		"Imran Khan": "1850",
	}, balances)
}

func TestScenario_LoadReplacesPreviousData(t *testing.T) {
	s := setupTestServer(t)
	loadScenario(t, s, "site-crew")
	balances := loadScenario(t, s, "backdated-payment")
	assert.Len(t, balances, 1)

	current := decodeBody[map[string]string](t, s.do(t, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "backdated-payment", current["scenario_id"])
}

func TestScenario_UnknownAndReset(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	listed := decodeBody[[]ScenarioDTO](t, s.do(t, http.MethodGet, "/api/scenarios", nil))
	assert.Len(t, listed, len(loaders))

	loadScenario(t, s, "weekly-wages")
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/scenarios/reset", nil).Code)
	labours, err := s.mem.ListLabours(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, labours)

	_, err = s.mem.GetLabour(context.Background(), ledger.LabourID("id-1"))
	assert.ErrorIs(t, err, ledger.ErrLabourNotFound)
}
