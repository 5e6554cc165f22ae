package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator("")

	got := g.Generate("Acme Fire & Safety")
	assert.Equal(t, "supportacmefire&safety@justclara.ai", got.Email)
	assert.Equal(t, "acmefire&safety@321", got.Password)
}

func TestGenerator_IsPure(t *testing.T) {
	g := NewGenerator("example.com")

	a := g.Generate("Acme Fire & Safety")
	b := g.Generate("acme fire & safety")
	c := g.Generate("  ACME\tFIRE\n&   SAFETY ")
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, "supportacmefire&safety@example.com", a.Email)
}

func TestNormalize_KeepsPunctuation(t *testing.T) {
	assert.Equal(t, "o'brien-plumbing,llc.", Normalize("O'Brien-Plumbing, LLC."))
	assert.Equal(t, "", Normalize(" \t "))
}
