package core_test

import (
	"context"
	"path"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/notepad/pkg/adapters/memory"
	"github.com/aretw0/notepad/pkg/core"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Missions", "Missions"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"Cyberpunk 2077", "Cyberpunk 2077"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
		{strings.Repeat("é", 120), strings.Repeat("é", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, core.Sanitize(tt.in), "Sanitize(%q)", tt.in)
	}
}

func TestResolverKeys(t *testing.T) {
	r := core.Resolver{SystemDir: ".notepad"}

	assert.Equal(t, "Test/Missions.json", r.RecordKey("Missions", "Test"))
	assert.Equal(t, "General/Missions.json", r.RecordKey("Missions", ""))
	assert.Equal(t, "Half-Life_ Alyx/Q_A.json", r.RecordKey("Q/A", "Half-Life: Alyx"))
	assert.Equal(t, "_..", r.GameDir(".."))
	assert.Equal(t, "_.notepad", r.GameDir(".notepad"))
}

func TestResolverProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	r := core.Resolver{SystemDir: core.DefaultSystemDir}

	properties.Property("record key is deterministic", prop.ForAll(
		func(title, game string) bool {
			return r.RecordKey(title, game) == r.RecordKey(title, game)
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("sanitize is idempotent and bounded", prop.ForAll(
		func(name string) bool {
			once := core.Sanitize(name)
			return core.Sanitize(once) == once &&
				utf8.RuneCountInString(once) <= 100 &&
				!strings.ContainsAny(once, `<>:"/\|?*`)
		},
		gen.AnyString(),
	))

	properties.Property("game dir stays one level below the root", prop.ForAll(
		func(title, game string) bool {
			key := r.RecordKey(title, game)
			dir := r.GameDir(game)
			return path.Dir(key) == dir &&
				!strings.HasPrefix(dir, ".") &&
				dir != core.DefaultSystemDir
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.OneGenOf(gen.AnyString(), gen.OneConstOf(".", "..", ".notepad", "", "  ")),
	))

	properties.TestingRun(t)
}

func TestEntryIDProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("entry id equals prior count plus one", prop.ForAll(
		func(contents []string) bool {
			ctx := context.Background()
			svc := core.NewService(memory.NewStorage())
			for i, c := range contents {
				e, err := svc.AppendEntry(ctx, "Log", c, "Prop")
				if err != nil || e.ID != i+1 {
					return false
				}
			}
			n, err := svc.Read(ctx, "Log", "Prop")
			if err != nil || len(n.Entries) != len(contents) {
				return false
			}
			for i, e := range n.Entries {
				if e.Content != contents[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool { return s != "" })).
			SuchThat(func(v []string) bool { return len(v) > 0 }),
	))

	properties.TestingRun(t)
}
