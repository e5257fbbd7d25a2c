package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/dexmgr/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(), "NO_COLOR should force Ascii profile")
}

func TestNew_NilWriterDefaultsToStderr(t *testing.T) {
	out := output.New(nil)
	assert.NotNil(t, out)
}

func TestNewWithProfile_Ascii(t *testing.T) {
	var buf bytes.Buffer
	out := output.NewWithProfile(&buf, func() termenv.Profile { return termenv.Ascii })

	styled := out.String("plain").Foreground(termenv.RGBColor("#FF0000"))
	_, err := out.WriteString(styled.String())

	assert.NoError(t, err)
	assert.Equal(t, "plain", buf.String())
}

func TestNewWithProfile_TrueColor(t *testing.T) {
	var buf bytes.Buffer
	out := output.NewWithProfile(&buf, func() termenv.Profile { return termenv.TrueColor })

	styled := out.String("red").Foreground(termenv.RGBColor("#FF0000"))
	_, err := out.WriteString(styled.String())

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "red")
}
