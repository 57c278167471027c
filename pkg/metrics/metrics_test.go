package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })
	require.Panics(t, func() { RegisterCollectors(reg) }, "double registration must fail loudly")

	before := testutil.ToFloat64(UpvoteActions.WithLabelValues("upvote"))
	UpvoteActions.WithLabelValues("upvote").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(UpvoteActions.WithLabelValues("upvote")))
}
