package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/testutil"
)

func TestReportRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReportRepository(db)
	reporter := testutil.TestUser(t, db)
	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)

	report := testutil.TestReport(t, db, reporter.ID, model.ReportTargetPost, post.ID)

	got, err := repo.GetByID(report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, got.Status)
	assert.Equal(t, model.ReportTargetPost, got.TargetType)
}

func TestReportRepository_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReportRepository(db)
	reporter := testutil.TestUser(t, db)
	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	report := testutil.TestReport(t, db, reporter.ID, model.ReportTargetPost, post.ID)

	err := repo.UpdateStatus(report.ID, model.ReportOpen)
	require.NoError(t, err)

	got, err := repo.GetByID(report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportOpen, got.Status)
}

func TestReportRepository_ListWithFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReportRepository(db)
	reporter := testutil.TestUser(t, db)
	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)

	testutil.TestReport(t, db, reporter.ID, model.ReportTargetPost, post.ID)
	testutil.TestReport(t, db, reporter.ID, model.ReportTargetUser, poster.ID)
	testutil.TestReport(t, db, reporter.ID, model.ReportTargetPost, post.ID,
		testutil.WithReportStatus(model.ReportClosed))

	// Unfiltered
	reports, total, err := repo.List("", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reports, 3)

	// Filtered by status
	reports, total, err = repo.List("", model.ReportPending, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, model.ReportPending, r.Status)
	}

	// Filtered by target type
	reports, total, err = repo.List(model.ReportTargetUser, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)
	assert.Equal(t, model.ReportTargetUser, reports[0].TargetType)

	// Both filters combined
	reports, total, err = repo.List(model.ReportTargetPost, model.ReportClosed, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)
	assert.Equal(t, model.ReportClosed, reports[0].Status)
}

func TestReportRepository_CloseForTarget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReportRepository(db)
	reporter1 := testutil.TestUser(t, db)
	reporter2 := testutil.TestUser(t, db)
	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	other := testutil.TestPost(t, db, poster.ID)

	testutil.TestReport(t, db, reporter1.ID, model.ReportTargetPost, post.ID)
	testutil.TestReport(t, db, reporter2.ID, model.ReportTargetPost, post.ID,
		testutil.WithReportStatus(model.ReportOpen))
	keep := testutil.TestReport(t, db, reporter1.ID, model.ReportTargetPost, other.ID)
	// Same target id but different type must not be touched
	userReport := testutil.TestReport(t, db, reporter1.ID, model.ReportTargetUser, post.ID)

	closed, err := repo.CloseForTarget(model.ReportTargetPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), closed)

	got, err := repo.GetByID(keep.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, got.Status)

	got, err = repo.GetByID(userReport.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, got.Status)
}

func TestReportRepository_CloseForTargets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewReportRepository(db)
	reporter := testutil.TestUser(t, db)
	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)

	c1 := testutil.TestComment(t, db, reporter.ID, post.ID, "one")
	c2 := testutil.TestComment(t, db, reporter.ID, post.ID, "two")

	testutil.TestReport(t, db, reporter.ID, model.ReportTargetComment, c1.ID)
	testutil.TestReport(t, db, reporter.ID, model.ReportTargetComment, c2.ID)

	closed, err := repo.CloseForTargets(model.ReportTargetComment, []int64{c1.ID, c2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), closed)

	closed, err = repo.CloseForTargets(model.ReportTargetComment, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed)
}
