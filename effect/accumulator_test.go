package effect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceCaps(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(DefaultConfig())
	for i := 0; i < 15; i++ {
		acc.Advance()
	}

	st := acc.State()
	assert.Equal(t, 10, st.BlurLevel)
	assert.Equal(t, 1.0, st.FadeProgress)
	assert.Equal(t, 40, acc.BlurRadius())
	assert.Equal(t, 1.0, acc.Opacity())
}

func TestAdvanceIsMonotonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "classic", cfg: DefaultConfig()},
		{name: "gentle", cfg: Config{BlurStep: 4, MaxBlur: 40, FadeStep: 0.05}},
		{name: "uneven cap", cfg: Config{BlurStep: 3, MaxBlur: 10, FadeStep: 0.3}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			acc := NewAccumulator(tt.cfg)
			prev := acc.State()
			require.Zero(t, prev)

			for i := 0; i < 40; i++ {
				st := acc.Advance()
				assert.GreaterOrEqual(t, st.BlurLevel, prev.BlurLevel)
				assert.GreaterOrEqual(t, st.FadeProgress, prev.FadeProgress)
				assert.LessOrEqual(t, st.BlurLevel, tt.cfg.BlurLevels())
				assert.LessOrEqual(t, st.FadeProgress, MaxFade)
				prev = st
			}
			assert.Equal(t, tt.cfg.BlurLevels(), prev.BlurLevel)
			assert.Equal(t, MaxFade, prev.FadeProgress)
		})
	}
}

func TestFirstStep(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(DefaultConfig())
	st := acc.Advance()
	assert.Equal(t, 1, st.BlurLevel)
	assert.Equal(t, 0.08, st.FadeProgress)
	assert.Equal(t, 4, acc.BlurRadius())

	acc = NewAccumulator(Config{BlurStep: 4, MaxBlur: 40, FadeStep: 0.05})
	st = acc.Advance()
	assert.Equal(t, 0.05, st.FadeProgress)
}

func TestBlurLevels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, Config{BlurStep: 4, MaxBlur: 40}.BlurLevels())
	assert.Equal(t, 3, Config{BlurStep: 3, MaxBlur: 10}.BlurLevels())
	assert.Equal(t, 0, Config{BlurStep: 0, MaxBlur: 10}.BlurLevels())
}

func TestConcurrentReaders(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				st := acc.State()
				assert.LessOrEqual(t, st.BlurLevel, 10)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		acc.Advance()
	}
	wg.Wait()
	assert.Equal(t, 10, acc.State().BlurLevel)
}
