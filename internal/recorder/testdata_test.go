package recorder

import (
	"time"

	"github.com/sells-group/install-check/internal/model"
)

func sampleRecord(id string) model.Record {
	return model.Record{
		ID:        id,
		Timestamp: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		CaseID:    model.Ptr("CASE-42"),
		URL:       model.Ptr("https://www.google.com/maps/@50.85,4.35,17z"),
		Coords: model.RecordCoords{
			Lat: model.Ptr(50.85),
			Lon: model.Ptr(4.35),
		},
		Decision:   model.LabelSimple,
		RiskScore:  0.61,
		Confidence: model.Ptr(0.39),
		Policy:     "confidence_based",
		Reasons:    []string{"Façade length 50.0 m ≤ 50 m → simple."},
		Fields: model.RecordFields{
			NetworkType:   model.NetworkFacade,
			FacadeLengthM: model.Ptr(50.0),
		},
		Links: &model.RecordLinks{StreetView: "https://www.google.com/maps?q&layer=c&cbll=50.85,4.35&cbp=11,0,0,0,0"},
	}
}
