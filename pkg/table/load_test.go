package table

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stdNameXML = `<?xml version="1.0"?>
<standard_name_table>
  <version_number>79</version_number>
  <last_modified>2022-03-19T15:25:54Z</last_modified>
  <entry id="air_temperature">
    <canonical_units>K</canonical_units>
  </entry>
  <entry id="altitude">
    <canonical_units>m</canonical_units>
  </entry>
  <alias id="height_above_geoid">
    <entry_id>altitude</entry_id>
  </alias>
</standard_name_table>`

// Alias declared before the entry it refers to.
const stdNameXMLAliasFirst = `<?xml version="1.0"?>
<standard_name_table>
  <version_number>79</version_number>
  <alias id="height_above_geoid">
    <entry_id>altitude</entry_id>
  </alias>
  <entry id="altitude">
    <canonical_units>m</canonical_units>
  </entry>
</standard_name_table>`

const areaTypeXML = `<?xml version="1.0"?>
<area_type_table>
  <version_number>10</version_number>
  <date>22 March 2021</date>
  <entry id="land"/>
  <entry id="sea_ice"/>
</area_type_table>`

// stubLoader returns a Loader serving fixed content and counting
// fetches.
func stubLoader(content string, now func() time.Time) (*Loader, *int) {
	fetches := new(int)
	l := &Loader{
		Fetch: func(string) (io.ReadCloser, error) {
			*fetches++
			return io.NopCloser(strings.NewReader(content)), nil
		},
		Now: now,
	}
	if l.Now == nil {
		l.Now = time.Now
	}
	return l, fetches
}

func TestLoadStandardNames(t *testing.T) {
	l, _ := stubLoader(stdNameXML, nil)
	tbl, err := l.Load(StandardNames, "names.xml", Disabled)
	require.NoError(t, err)

	assert.Equal(t, "79", tbl.Version)
	assert.Equal(t, "2022-03-19T15:25:54Z", tbl.LastModified)
	assert.False(t, tbl.FromCache)
	assert.Empty(t, tbl.Problems)

	u, ok := tbl.CanonicalUnits("air_temperature")
	require.True(t, ok)
	assert.Equal(t, "K", u)

	// Alias resolves to the units of its target.
	u, ok = tbl.CanonicalUnits("height_above_geoid")
	require.True(t, ok)
	assert.Equal(t, "m", u)

	assert.True(t, tbl.Has("altitude"))
	assert.False(t, tbl.Has("unknown_name"))
}

func TestLoadAliasOrderIndependence(t *testing.T) {
	for name, content := range map[string]string{
		"entry first": stdNameXML,
		"alias first": stdNameXMLAliasFirst,
	} {
		t.Run(name, func(t *testing.T) {
			l, _ := stubLoader(content, nil)
			tbl, err := l.Load(StandardNames, "names.xml", Disabled)
			require.NoError(t, err)
			assert.Empty(t, tbl.Problems)
			u, ok := tbl.CanonicalUnits("height_above_geoid")
			require.True(t, ok)
			assert.Equal(t, "m", u)
		})
	}
}

func TestLoadUnresolvedAlias(t *testing.T) {
	broken := `<t><alias id="a"><entry_id>missing</entry_id></alias></t>`
	l, _ := stubLoader(broken, nil)
	tbl, err := l.Load(StandardNames, "names.xml", Disabled)
	require.NoError(t, err)
	require.Len(t, tbl.Problems, 1)
	assert.Contains(t, tbl.Problems[0].Message, "missing")
	assert.False(t, tbl.Has("a"))
}

func TestLoadMembershipTable(t *testing.T) {
	l, _ := stubLoader(areaTypeXML, nil)
	tbl, err := l.Load(AreaTypes, "area.xml", Disabled)
	require.NoError(t, err)
	assert.Equal(t, "10", tbl.Version)
	assert.Equal(t, "22 March 2021", tbl.LastModified)
	assert.True(t, tbl.Has("land"))
	assert.True(t, tbl.Has("sea_ice"))
	assert.False(t, tbl.Has("swamp"))
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	policy := Policy{Enabled: true, MaxAge: 24 * time.Hour, Dir: dir, Key: "area"}

	l, fetches := stubLoader(areaTypeXML, nil)
	first, err := l.Load(AreaTypes, "area.xml", policy)
	require.NoError(t, err)
	require.Equal(t, 1, *fetches)
	assert.False(t, first.FromCache)

	// Second load inside MaxAge must not touch the source.
	second, err := l.Load(AreaTypes, "area.xml", policy)
	require.NoError(t, err)
	assert.Equal(t, 1, *fetches)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, first.LastModified, second.LastModified)
	assert.True(t, second.Has("land"))
}

func TestCacheMaxAgeZeroAlwaysRefetches(t *testing.T) {
	dir := t.TempDir()
	policy := Policy{Enabled: true, Dir: dir, Key: "area"} // MaxAge zero

	l, fetches := stubLoader(areaTypeXML, nil)
	for i := 0; i < 3; i++ {
		tbl, err := l.Load(AreaTypes, "area.xml", policy)
		require.NoError(t, err)
		assert.False(t, tbl.FromCache)
	}
	assert.Equal(t, 3, *fetches)
}

func TestCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	policy := Policy{Enabled: true, MaxAge: time.Hour, Dir: dir, Key: "area"}

	current := time.Unix(1_700_000_000, 0)
	l, fetches := stubLoader(areaTypeXML, func() time.Time { return current })

	_, err := l.Load(AreaTypes, "area.xml", policy)
	require.NoError(t, err)
	require.Equal(t, 1, *fetches)

	// Entry older than MaxAge is refetched.
	current = current.Add(2 * time.Hour)
	tbl, err := l.Load(AreaTypes, "area.xml", policy)
	require.NoError(t, err)
	assert.Equal(t, 2, *fetches)
	assert.False(t, tbl.FromCache)
}

func TestLoadFetchError(t *testing.T) {
	l := &Loader{
		Fetch: func(string) (io.ReadCloser, error) {
			return nil, io.ErrUnexpectedEOF
		},
		Now: time.Now,
	}
	_, err := l.Load(StandardNames, "names.xml", Disabled)
	assert.Error(t, err)
}
