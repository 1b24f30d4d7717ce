package comparison

import (
	"context"
	"testing"
	"time"

	"github.com/aristath/qvlens/internal/events"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CompareStoresAndEmits(t *testing.T) {
	service, repo, bus := newTestService(t, fakeElections{"e1": sampleElection()})

	var computed *events.ReportComputedData
	bus.Subscribe(events.ReportComputed, func(e *events.Event) {
		computed = e.Data.(*events.ReportComputedData)
	})

	report, err := service.Compare(context.Background(), "e1")
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.WithinDuration(t, time.Now(), report.CreatedAt, time.Minute)

	require.NotNil(t, computed)
	assert.Equal(t, report.ID, computed.ReportID)
	assert.Equal(t, MethodQV, computed.MoreEqual)
	assert.InDelta(t, report.OPOV.Summary.Gini, computed.OPOVGini, 1e-12)

	latest, err := repo.Latest("e1")
	require.NoError(t, err)
	assert.Equal(t, report.ID, latest.ID)
}

func TestService_CompareUnknownElection(t *testing.T) {
	service, _, _ := newTestService(t, fakeElections{})

	_, err := service.Compare(context.Background(), "missing")
	assert.ErrorIs(t, err, voting.ErrElectionNotFound)
}

func TestService_RefreshAllContinuesPastFailures(t *testing.T) {
	broken := sampleElection()
	broken.ID = "broken"
	broken.Ballots = nil

	service, _, _ := newTestService(t, fakeElections{"e1": sampleElection(), "broken": broken})

	refreshed, err := service.RefreshAll(context.Background())
	assert.Equal(t, 1, refreshed)
	assert.Error(t, err)

	_, err = service.Latest("e1")
	assert.NoError(t, err)
}

func TestService_PruneAll(t *testing.T) {
	service, _, _ := newTestService(t, fakeElections{"e1": sampleElection()})

	for i := 0; i < 3; i++ {
		_, err := service.Compare(context.Background(), "e1")
		require.NoError(t, err)
	}

	deleted, err := service.PruneAll(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	reports, err := service.ListReports("e1")
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestService_ElectionDeletedDropsReports(t *testing.T) {
	service, _, bus := newTestService(t, fakeElections{"e1": sampleElection()})
	unsubscribe := service.SubscribeToEvents(bus)
	defer unsubscribe()

	_, err := service.Compare(context.Background(), "e1")
	require.NoError(t, err)

	bus.Emit(events.ElectionDeleted, "voting", &events.ElectionDeletedData{ElectionID: "e1"})

	_, err = service.Latest("e1")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestService_LatestReports(t *testing.T) {
	second := sampleElection()
	second.ID = "e2"
	service, _, _ := newTestService(t, fakeElections{"e1": sampleElection(), "e2": second})

	_, err := service.Compare(context.Background(), "e1")
	require.NoError(t, err)
	newest, err := service.Compare(context.Background(), "e1")
	require.NoError(t, err)
	_, err = service.Compare(context.Background(), "e2")
	require.NoError(t, err)

	reports, err := service.LatestReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, newest.ID, reports[0].ID)
	assert.Equal(t, "e2", reports[1].ElectionID)
}
