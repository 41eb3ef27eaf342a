package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	out   *[]string
}

func (r recorder) Phase() Phase { return r.phase }
func (r recorder) Update(time.Duration) {
	*r.out = append(*r.out, r.name)
}

func TestRunnerOrdersByPhase(t *testing.T) {
	var out []string
	r := NewRunner()
	r.Register(recorder{"cleanup", PhaseCleanup, &out})
	r.Register(recorder{"update-a", PhaseUpdate, &out})
	r.Register(recorder{"input", PhaseInput, &out})
	r.Register(recorder{"update-b", PhaseUpdate, &out})

	r.Tick(time.Millisecond)

	assert.Equal(t, []string{"input", "update-a", "update-b", "cleanup"}, out)
	assert.Equal(t, uint64(1), r.Ticks())
}

func TestRunnerTickPhase(t *testing.T) {
	var out []string
	r := NewRunner()
	r.Register(recorder{"update", PhaseUpdate, &out})
	r.Register(recorder{"input", PhaseInput, &out})

	r.TickPhase(PhaseInput, time.Millisecond)

	assert.Equal(t, []string{"input"}, out)
	assert.Zero(t, r.Ticks())
	assert.Equal(t, "post-update", PhasePostUpdate.String())
}
