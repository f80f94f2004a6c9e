package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

// fakeProgressAPI mimics the gateway's index-addressed activity routes
// over an in-memory record set.
type fakeProgressAPI struct {
	records map[string]models.Progress
	listErr error
	mutErr  error
}

func newFakeProgressAPI(records ...models.Progress) *fakeProgressAPI {
	api := &fakeProgressAPI{records: make(map[string]models.Progress)}
	for _, r := range records {
		api.records[r.StudentID+"/"+r.ModuleID] = r
	}
	return api
}

func (f *fakeProgressAPI) ListProgress(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Progress, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeProgressAPI) CreateProgress(ctx context.Context, payload interface{}) (*models.Progress, error) {
	r := models.Progress{ID: "created", StudentID: "s9", ModuleID: "m9"}
	f.records["s9/m9"] = r
	return &r, nil
}

func (f *fakeProgressAPI) AddActivity(ctx context.Context, studentID, moduleID string, payload interface{}) (*models.Progress, error) {
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	r := f.records[studentID+"/"+moduleID]
	r.Activities = append(r.Activities, models.Activity{ID: "added", Type: models.ActivityTypeQuiz, Score: 1, Total: 1})
	f.records[studentID+"/"+moduleID] = r
	return &r, nil
}

func (f *fakeProgressAPI) UpdateActivity(ctx context.Context, studentID, moduleID string, index int, payload interface{}) (*models.Progress, error) {
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	r := f.records[studentID+"/"+moduleID]
	r.Activities[index].Name = "Edited"
	f.records[studentID+"/"+moduleID] = r
	return &r, nil
}

func (f *fakeProgressAPI) DeleteActivity(ctx context.Context, studentID, moduleID string, index int) (*models.Progress, error) {
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	r := f.records[studentID+"/"+moduleID]
	copied := append(models.ActivityList{}, r.Activities...)
	r.Activities = append(copied[:index], copied[index+1:]...)
	f.records[studentID+"/"+moduleID] = r
	return &r, nil
}

func (f *fakeProgressAPI) DeleteProgress(ctx context.Context, studentID, moduleID string) error {
	delete(f.records, studentID+"/"+moduleID)
	return nil
}

func seedProgressRecord() models.Progress {
	return models.Progress{
		ID:        "p1",
		StudentID: "s1",
		ModuleID:  "m1",
		Activities: models.ActivityList{
			{ID: "a1", Name: "First", Type: models.ActivityTypeQuiz, Score: 5, Total: 10},
			{ID: "a2", Name: "Second", Type: models.ActivityTypeProject, Score: 40, Total: 50},
			{ID: "a3", Name: "Third", Type: models.ActivityTypeQuiz, Score: 7, Total: 10},
		},
	}
}

func TestProgressStoreDeleteActivityShiftsIndexes(t *testing.T) {
	api := newFakeProgressAPI(seedProgressRecord())
	s := NewProgressStore(api)
	require.NoError(t, s.Load(context.Background()))

	record, err := s.DeleteActivity(context.Background(), "s1", "m1", 0)
	require.NoError(t, err)
	require.Len(t, record.Activities, 2)
	assert.Equal(t, "a2", record.Activities[0].ID)
	assert.Equal(t, "a3", record.Activities[1].ID)

	snap := s.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Equal(t, record.Activities, snap.Records[0].Activities)
}

func TestProgressStoreMutationUpdatesLocalRecord(t *testing.T) {
	api := newFakeProgressAPI(seedProgressRecord())
	s := NewProgressStore(api)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.AddActivity(context.Background(), "s1", "m1", nil)
	require.NoError(t, err)
	snap := s.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Len(t, snap.Records[0].Activities, 4)
}

func TestProgressStoreMutationOnUnloadedRecordAppends(t *testing.T) {
	api := newFakeProgressAPI(seedProgressRecord())
	s := NewProgressStore(api)
	// Never loaded: the slice is empty, the mutation result is appended.
	_, err := s.AddActivity(context.Background(), "s1", "m1", nil)
	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Records, 1)
}

func TestProgressStoreFailedMutationKeepsData(t *testing.T) {
	api := newFakeProgressAPI(seedProgressRecord())
	s := NewProgressStore(api)
	require.NoError(t, s.Load(context.Background()))

	api.mutErr = errors.New("index out of range")
	_, err := s.UpdateActivity(context.Background(), "s1", "m1", 9, nil)
	require.Error(t, err)
	snap := s.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Len(t, snap.Records[0].Activities, 3)
	assert.Error(t, snap.Err)
}

func TestProgressStoreInFlightGuardKeyedByPair(t *testing.T) {
	api := newFakeProgressAPI(seedProgressRecord())
	s := NewProgressStore(api)
	require.NoError(t, s.Load(context.Background()))

	// Simulate a pending mutation on (s1, m1).
	require.True(t, s.inFlight.acquire("s1/m1"))
	defer s.inFlight.release("s1/m1")

	_, err := s.AddActivity(context.Background(), "s1", "m1", nil)
	assert.ErrorIs(t, err, appErrors.ErrInFlight)

	err = s.Delete(context.Background(), "s1", "m1")
	assert.ErrorIs(t, err, appErrors.ErrInFlight)

	// A different pair is unaffected.
	_, err = s.AddActivity(context.Background(), "s1", "m2", nil)
	require.NoError(t, err)
}

func TestProgressStoreDelete(t *testing.T) {
	api := newFakeProgressAPI(seedProgressRecord())
	s := NewProgressStore(api)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "s1", "m1"))
	assert.Empty(t, s.Snapshot().Records)
}

func TestProgressStoreByStudent(t *testing.T) {
	api := newFakeProgressAPI(
		models.Progress{ID: "p1", StudentID: "s1", ModuleID: "m1"},
		models.Progress{ID: "p2", StudentID: "s1", ModuleID: "m2"},
		models.Progress{ID: "p3", StudentID: "s2", ModuleID: "m1"},
	)
	s := NewProgressStore(api)
	require.NoError(t, s.Load(context.Background()))

	records := s.ByStudent("s1")
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "s1", r.StudentID)
	}
	assert.Empty(t, s.ByStudent("s9"))
}

func TestProgressStoreStatistics(t *testing.T) {
	api := newFakeProgressAPI(seedProgressRecord())
	s := NewProgressStore(api)
	require.NoError(t, s.Load(context.Background()))

	stats := s.Statistics()
	// (50 + 80 + 70) / 3
	assert.InDelta(t, 66.666, stats.AverageScore, 0.01)
	assert.InDelta(t, 100, stats.CompletionRate, 0.001)
}
