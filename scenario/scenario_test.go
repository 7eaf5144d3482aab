package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuromusic/waver/utils"
	"github.com/neuromusic/waver/wave"
)

var exampleDoc = []byte(`
Title: "Point Source"
Size: [10.0]
Spacing: 1.0
Speed: 2000000.0
Duration: 4.9e-6
Source:
  Location: [3.0]
  Frequency: 100000.0
  NCycles: 3
Boundaries:
  - [PML, PML]
LogFrequency: 5
`)

func TestParse(t *testing.T) {
	var p Parameters
	require.NoError(t, p.Parse(exampleDoc))
	assert.Equal(t, "Point Source", p.Title)
	assert.Equal(t, []float64{10}, p.Size)
	assert.Equal(t, 1., p.Spacing)
	assert.Equal(t, 2.e6, p.Speed)
	assert.Equal(t, 4.9e-6, p.Duration)
	require.Len(t, p.Source.Location, 1)
	assert.Equal(t, 3., *p.Source.Location[0])
	assert.Equal(t, 1.e5, p.Source.Frequency)
	require.NotNil(t, p.Source.NCycles)
	assert.Equal(t, 3, *p.Source.NCycles)
	assert.Equal(t, [][2]string{{"PML", "PML"}}, p.Boundaries)
	assert.Equal(t, 5, p.LogFrequency)
}

func TestParseNulls(t *testing.T) {
	doc := []byte(`
Size: [0.4, 0.3]
Spacing: 0.1
Speed: 343.0
Duration: 0.001
Source:
  Location: [null, 0.2]
  Frequency: 1000.0
`)
	var p Parameters
	require.NoError(t, p.Parse(doc))
	require.Len(t, p.Source.Location, 2)
	assert.Nil(t, p.Source.Location[0])
	require.NotNil(t, p.Source.Location[1])
	assert.Equal(t, 0.2, *p.Source.Location[1])
	assert.Nil(t, p.Source.NCycles)
}

func TestValidate(t *testing.T) {
	base := func() *Parameters {
		var p Parameters
		require.NoError(t, p.Parse(exampleDoc))
		return &p
	}
	{ // The example document is complete
		assert.NoError(t, base().Validate())
	}
	{ // Required fields
		p := base()
		p.Size = nil
		assert.Error(t, p.Validate())

		p = base()
		p.Spacing = 0
		assert.Error(t, p.Validate())

		p = base()
		p.Speed = 0
		assert.Error(t, p.Validate())

		p = base()
		p.Duration = -1
		assert.Error(t, p.Validate())

		p = base()
		p.Source.Frequency = 0
		assert.Error(t, p.Validate())
	}
	{ // Arities must match Size
		p := base()
		p.Source.Location = []*float64{nil, nil}
		assert.Error(t, p.Validate())

		p = base()
		p.Boundaries = [][2]string{{"PML", "PML"}, {"PML", "PML"}}
		assert.Error(t, p.Validate())
	}
	{ // SpeedCells substitutes for Speed
		p := base()
		p.Speed = 0
		p.SpeedCells = make([]float64, 10)
		assert.NoError(t, p.Validate())
	}
}

func TestBuild(t *testing.T) {
	var p Parameters
	require.NoError(t, p.Parse(exampleDoc))
	s, err := p.Build()
	require.NoError(t, err)
	{ // Derived configuration
		assert.Equal(t, 5.e-7, s.Time.Step)
		assert.Equal(t, 10, s.Time.NSteps)
		assert.Equal(t, []int{10}, s.Grid.Shape)
	}
	{ // Source resolved to cell 3
		src, err := s.Source()
		require.NoError(t, err)
		assert.Equal(t, utils.Index{3}, src.Cells())
	}
	{ // Boundaries recorded
		assert.Equal(t, []wave.BoundaryPair{{Lo: wave.BCPML, Hi: wave.BCPML}}, s.Boundaries())
	}
	{ // The built simulation runs
		require.NoError(t, s.Run())
		assert.True(t, s.HasRun())
	}
}

func TestBuildDefaults(t *testing.T) {
	{ // Omitted Location broadcasts over every cell
		doc := []byte(`
Size: [0.4, 0.3]
Spacing: 0.1
Speed: 343.0
Duration: 0.001
Source:
  Frequency: 1000.0
`)
		var p Parameters
		require.NoError(t, p.Parse(doc))
		s, err := p.Build()
		require.NoError(t, err)
		src, err := s.Source()
		require.NoError(t, err)
		assert.Equal(t, s.Grid.NCells(), src.Mask().NNZ())
	}
	{ // SpeedCells builds a per-cell field
		doc := []byte(`
Size: [3.0]
Spacing: 1.0
SpeedCells: [1000000.0, 2000000.0, 1500000.0]
Duration: 4.9e-6
Source:
  Frequency: 100000.0
`)
		var p Parameters
		require.NoError(t, p.Parse(doc))
		s, err := p.Build()
		require.NoError(t, err)
		assert.Equal(t, 2.e6, s.Grid.MaxSpeed())
		assert.Equal(t, 5.e-7, s.Time.Step)
	}
}

func TestBuildErrors(t *testing.T) {
	base := func() *Parameters {
		var p Parameters
		require.NoError(t, p.Parse(exampleDoc))
		return &p
	}
	{ // Unknown boundary names surface from the build
		p := base()
		p.Boundaries = [][2]string{{"dirichlet", "PML"}}
		_, err := p.Build()
		require.Error(t, err)
		var ce *wave.ConfigError
		assert.ErrorAs(t, err, &ce)
	}
	{ // SpeedCells must fill the grid exactly
		p := base()
		p.Speed = 0
		p.SpeedCells = []float64{1, 2, 3}
		_, err := p.Build()
		assert.Error(t, err)
	}
	{ // Out of range source locations carry their axis
		p := base()
		p.Source.Location = []*float64{wave.Fixed(99)}
		_, err := p.Build()
		var re *wave.RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, 0, re.Axis)
	}
}
