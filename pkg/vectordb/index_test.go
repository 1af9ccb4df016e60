package vectordb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

func newTestIndex(t *testing.T, adapters ...Adapter) *Index {
	t.Helper()
	idx, err := NewIndex(NewRegistry(adapters...), logger.NewNop())
	require.NoError(t, err)
	return idx
}

func TestIndexEnsuresThenIndexes(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := NewMockAdapter(ctrl)
	adapter.EXPECT().Backend().Return(BackendRedis).AnyTimes()

	item := IndexedItem{Label: "alice", URL: "u", Model: ModelFaceNet, Detector: DetectorMTCNN, Vector: Vector{1, 2, 3}}
	key := CollectionKey{Model: ModelFaceNet, Detector: DetectorMTCNN, Metric: MetricEuclidean}

	gomock.InOrder(
		adapter.EXPECT().EnsureCollection(gomock.Any(), key, 3).Return(nil),
		adapter.EXPECT().Index(gomock.Any(), key, item).Return(nil),
	)

	require.NoError(t, newTestIndex(t, adapter).Index(context.Background(), BackendRedis, item, MetricEuclidean))
}

func TestIndexUnknownBackend(t *testing.T) {
	idx := newTestIndex(t)
	err := idx.Index(context.Background(), BackendQdrant, IndexedItem{Vector: Vector{1}}, MetricCosine)
	assert.True(t, faceerr.IsValidation(err))
}

func TestSearchSortsAndCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := NewMockAdapter(ctrl)
	adapter.EXPECT().Backend().Return(BackendPostgreSQL).AnyTimes()

	key := CollectionKey{Model: ModelVGGFace, Detector: DetectorOpenCV, Metric: MetricCosine}
	query := Vector{0.1, 0.2}

	adapter.EXPECT().EnsureCollection(gomock.Any(), key, 2).Return(nil)
	adapter.EXPECT().Search(gomock.Any(), key, query, 0.40).Return([]Match{
		{Label: "bob", URL: "b", Distance: 0.3},
		{Label: "alice", URL: "a1", Distance: 0.1},
		{Label: "alice", URL: "a2", Distance: 0.3},
	}, nil)
	adapter.EXPECT().CountLabel(gomock.Any(), key, "alice").Return(4, nil)

	out, err := newTestIndex(t, adapter).Search(context.Background(), BackendPostgreSQL, key, query, "alice")
	require.NoError(t, err)

	assert.Equal(t, 0.40, out.Threshold)
	assert.Equal(t, 4, out.TotalWithLabel)
	require.Len(t, out.Matches, 3)
	assert.Equal(t, "a1", out.Matches[0].URL)
	// equal distances keep their relative order
	assert.Equal(t, "b", out.Matches[1].URL)
	assert.Equal(t, "a2", out.Matches[2].URL)
}

func TestSearchNeverIndexedKeyIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := NewMockAdapter(ctrl)
	adapter.EXPECT().Backend().Return(BackendQdrant).AnyTimes()
	adapter.EXPECT().EnsureCollection(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	adapter.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	adapter.EXPECT().CountLabel(gomock.Any(), gomock.Any(), "nobody").Return(0, nil)

	key := CollectionKey{Model: ModelDlib, Detector: DetectorDlib, Metric: MetricEuclidean}
	out, err := newTestIndex(t, adapter).Search(context.Background(), BackendQdrant, key, Vector{1}, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, out.Matches)
	assert.Empty(t, out.Matches)
	assert.Zero(t, out.TotalWithLabel)
}

func TestSearchClassifiesAdapterErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := NewMockAdapter(ctrl)
	adapter.EXPECT().Backend().Return(BackendRedis).AnyTimes()
	adapter.EXPECT().EnsureCollection(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	adapter.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	key := CollectionKey{Model: ModelOpenFace, Detector: DetectorSSD, Metric: MetricCosine}
	_, err := newTestIndex(t, adapter).Search(context.Background(), BackendRedis, key, Vector{1}, "x")
	require.Error(t, err)
	assert.True(t, faceerr.IsBackend(err))
}

func TestSearchUnknownModelIsConfigurationError(t *testing.T) {
	key := CollectionKey{Model: Model("Unknown"), Detector: DetectorOpenCV, Metric: MetricCosine}
	_, err := newTestIndex(t).Search(context.Background(), BackendQdrant, key, Vector{1}, "x")
	assert.True(t, faceerr.IsConfiguration(err))
}
