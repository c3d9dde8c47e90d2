package analyses

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Manugarciaa/sentrix-intake/internal/sites"
)

func TestNewReferenceAnalysis(t *testing.T) {
	refID := uuid.New()
	cmd := ReferenceCommand{
		Filename:            "dup.jpg",
		ContentSignature:    "abc123",
		SignatureSizeBytes:  2048,
		ReferenceAnalysisID: refID,
		ReferenceImageURL:   "https://blob/images/original.jpg",
		StorageSavedBytes:   2048,
	}

	a := newReferenceAnalysis(cmd)

	if !a.IsDuplicateReference {
		t.Error("reference row should be marked as duplicate reference")
	}
	if a.RiskLevel != sites.RiskMinimal {
		t.Errorf("risk level = %q, want %s", a.RiskLevel, sites.RiskMinimal)
	}
	if a.ReferenceAnalysisID == nil || *a.ReferenceAnalysisID != refID {
		t.Errorf("reference analysis id = %v, want %s", a.ReferenceAnalysisID, refID)
	}
	if a.StorageSavedBytes == nil || *a.StorageSavedBytes != 2048 {
		t.Errorf("storage saved bytes = %v, want 2048", a.StorageSavedBytes)
	}
	if a.TotalDetections != 0 {
		t.Errorf("total detections = %d, want 0", a.TotalDetections)
	}
	if a.ImageURL != cmd.ReferenceImageURL {
		t.Errorf("image url = %q, want the original's url", a.ImageURL)
	}
}
