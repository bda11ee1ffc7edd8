package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	r := NewRendererWithTTY(&out, &errOut, false, ModeAuto)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r = NewRendererWithTTY(&out, &errOut, false, ModeJSON)
	assert.Equal(t, ModeJSON, r.EffectiveMode())

	r = NewRendererWithTTY(&out, &errOut, false, "")
	assert.Equal(t, ModeText, r.EffectiveMode())
}

func TestPlainStylesOffTTY(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Println(r.Styles().Error.Render("boom"))
	assert.Equal(t, "boom\n", out.String())
}

func TestJSONOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeJSON)

	doc := CheckOutput{
		Files: []CheckFileResult{{
			Path:    "tas.nc",
			Version: "CF-1.7",
			Diagnostics: []CheckDiagnostic{{
				Severity: "error",
				Code:     "3.3",
				Variable: "tas",
				Message:  "Invalid standard_name",
			}},
		}},
	}
	require.NoError(t, r.JSON(doc))

	var got CheckOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, doc.Files[0].Path, got.Files[0].Path)
	assert.Equal(t, "error", got.Files[0].Diagnostics[0].Severity)
}

func TestSuccessAndErrorWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Success("all good")
	assert.Contains(t, out.String(), "all good")
	assert.Empty(t, errOut.String())

	r.Errorln("broken")
	assert.Equal(t, "broken\n", errOut.String())
}
