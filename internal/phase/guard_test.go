package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/scripterr"
)

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "None", None.String())
	assert.Equal(t, "BeforeLoadScene", BeforeSceneLoad.String())
	assert.Equal(t, "AfterLoadScene", SceneLoad.String())
	assert.Equal(t, "AfterLoadSavedState", GameLoad.String())
	assert.Equal(t, "InScene", InScene.String())
	assert.Equal(t, "LifeScript", Life.String())
	assert.Equal(t, "MoveScript", Move.String())
	assert.Equal(t, "Unknown", Phase(42).String())
}

func TestParse(t *testing.T) {
	p, ok := Parse("LifeScript")
	require.True(t, ok)
	assert.Equal(t, Life, p)

	p, ok = Parse("sceneLoad")
	require.True(t, ok)
	assert.Equal(t, SceneLoad, p)

	_, ok = Parse("nope")
	assert.False(t, ok)
}

func TestGuard_Allow(t *testing.T) {
	g := NewGuard()
	g.Set(SceneLoad)

	require.NoError(t, g.Allow(SceneLoad))
	require.NoError(t, g.Allow(Life, SceneLoad))

	err := g.Allow(Life, Move)
	require.Error(t, err)
	assert.True(t, scripterr.IsPolicy(err))
	assert.Equal(t, "Execution of this function is only allowed in the following phases: LifeScript, MoveScript", err.Error())
}

func TestGuard_Deny(t *testing.T) {
	g := NewGuard()

	err := g.Deny(None, BeforeSceneLoad)
	require.Error(t, err)
	assert.Equal(t,
		"Execution of this function is only allowed in the following phases: AfterLoadScene, AfterLoadSavedState, InScene, LifeScript, MoveScript",
		err.Error())

	g.Set(InScene)
	assert.NoError(t, g.Deny(None, BeforeSceneLoad))
}

func TestGuard_DisabledShortCircuits(t *testing.T) {
	g := NewGuard()
	g.SetEnabled(false)
	assert.False(t, g.Enabled())

	for _, p := range All {
		g.Set(p)
		assert.NoError(t, g.Allow(Life), "allow in %s", p)
		assert.NoError(t, g.Deny(All...), "deny in %s", p)
	}
}

func TestGuard_TestOnlyIndependentOfEnabled(t *testing.T) {
	g := NewGuard()
	g.SetEnabled(false)

	err := g.TestOnly()
	require.Error(t, err)
	assert.Equal(t, "Execution of this function is only allowed in test mode.", err.Error())

	g.SetTestMode(true)
	assert.NoError(t, g.TestOnly())
}

// Every policy fails in exactly the phases it does not permit.
func TestGuard_CheckMatchesPermits(t *testing.T) {
	policies := []Policy{Getter, Setter, VariableWriter, CurrencyWriter, AllowIn(None, InScene), Unrestricted}
	g := NewGuard()

	for _, pol := range policies {
		for _, p := range All {
			g.Set(p)
			err := g.Check(pol)
			if pol.Permits(p) {
				assert.NoError(t, err, "policy %+v in %s", pol, p)
			} else {
				assert.Error(t, err, "policy %+v in %s", pol, p)
			}
		}
	}
}

func TestExcept(t *testing.T) {
	assert.Equal(t, []Phase{SceneLoad, GameLoad, InScene, Life, Move}, Except([]Phase{None, BeforeSceneLoad}))
	assert.Empty(t, Except(All))
}
