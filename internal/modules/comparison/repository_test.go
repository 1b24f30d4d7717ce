package comparison

import (
	"testing"
	"time"

	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedReport(t *testing.T, repo *Repository, id, electionID string, at time.Time) *Report {
	report, err := BuildReport(sampleElection(), testOptions, inequality.NewService(testLogger()))
	require.NoError(t, err)
	report.ID = id
	report.ElectionID = electionID
	report.CreatedAt = at
	require.NoError(t, repo.Save(report))
	return report
}

func TestRepository_SaveGetRoundTrip(t *testing.T) {
	repo := NewRepository(setupTestDB(t), testLogger())
	saved := storedReport(t, repo, "r1", "e1", time.Unix(1700000000, 123).UTC())

	got, err := repo.Get("r1")
	require.NoError(t, err)

	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt = saved.CreatedAt
	assert.Equal(t, saved, got)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t), testLogger())

	_, err := repo.Get("nope")
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = repo.Latest("nope")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestRepository_SaveRequiresID(t *testing.T) {
	repo := NewRepository(setupTestDB(t), testLogger())
	assert.Error(t, repo.Save(&Report{}))
}

func TestRepository_LatestListPrune(t *testing.T) {
	repo := NewRepository(setupTestDB(t), testLogger())
	base := time.Unix(1700000000, 0).UTC()

	storedReport(t, repo, "old", "e1", base)
	storedReport(t, repo, "mid", "e1", base.Add(time.Minute))
	storedReport(t, repo, "new", "e1", base.Add(2*time.Minute))
	storedReport(t, repo, "other", "e2", base)

	latest, err := repo.Latest("e1")
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)

	list, err := repo.ListByElection("e1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})

	ids, err := repo.ElectionIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)

	deleted, err := repo.Prune("e1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	list, err = repo.ListByElection("e1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].ID)

	_, err = repo.Prune("e1", -1)
	assert.Error(t, err)

	deleted, err = repo.DeleteByElection("e2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
