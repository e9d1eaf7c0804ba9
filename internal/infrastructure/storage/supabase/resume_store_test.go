package supabase

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

func TestValidateResume_AcceptsPDF(t *testing.T) {
	content := []byte("%PDF-1.7 minimal body")

	err := ValidateResume(content)

	assert.NoError(t, err)
}

func TestValidateResume_RejectsEmpty(t *testing.T) {
	err := ValidateResume(nil)

	assert.ErrorIs(t, err, shared.ErrResumeNotPDF)
}

func TestValidateResume_RejectsNonPDF(t *testing.T) {
	content := []byte("PK\x03\x04 this is a zip, not a pdf")

	err := ValidateResume(content)

	assert.ErrorIs(t, err, shared.ErrResumeNotPDF)
}

func TestValidateResume_RejectsOversized(t *testing.T) {
	content := append([]byte("%PDF-1.7"), bytes.Repeat([]byte{0}, MaxResumeSize)...)

	err := ValidateResume(content)

	assert.ErrorIs(t, err, shared.ErrResumeTooLarge)
}

func TestValidateResume_AcceptsExactlyAtLimit(t *testing.T) {
	content := append([]byte("%PDF-1.7"), bytes.Repeat([]byte{0}, MaxResumeSize-8)...)

	err := ValidateResume(content)

	assert.NoError(t, err)
}

func TestPublicURL_EscapesKeySegments(t *testing.T) {
	store := NewResumeStore(DefaultResumeStoreConfig("https://proj.supabase.co", "key"))

	url := store.PublicURL("CSE/1RV21CS001.pdf")

	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/resumes/CSE/1RV21CS001.pdf", url)
}
