package risk

import (
	"strconv"
	"strings"

	"github.com/rmagbanua/nanaycare-api/internal/model"
)

// Classification thresholds. These mirror the program's intake guidelines
// for pregnant women and must not be reordered: rule priority is part of the
// contract.
const (
	systolicThreshold  = 140
	diastolicThreshold = 90
	feverThresholdC    = 38
	lowWeightKg        = 45
)

// ParseBloodPressure splits "systolic/diastolic" text into its two integer
// components. A malformed string returns ok=false; callers treat that as the
// reading being absent rather than an error.
func ParseBloodPressure(bp string) (systolic, diastolic int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(bp), "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	systolic, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	diastolic, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return systolic, diastolic, true
}

// Classify maps one health record to a risk label. First matching rule wins:
// blood pressure, then fever, then low weight, then chronic condition flags.
// A record that triggers nothing is Stable. Vitals are taken as stored, with
// no range validation.
func Classify(record *model.HealthRecord) model.RiskLabel {
	if systolic, diastolic, ok := ParseBloodPressure(record.BloodPressure); ok {
		if systolic >= systolicThreshold || diastolic >= diastolicThreshold {
			return model.RiskHighBloodPressure
		}
	}
	if record.TemperatureC > feverThresholdC {
		return model.RiskFever
	}
	if record.WeightKg < lowWeightKg {
		return model.RiskLowWeight
	}
	if record.Diabetes || record.Hypertension {
		return model.RiskChronicCondition
	}
	return model.RiskStable
}
