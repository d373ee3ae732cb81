package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// RawInput carries the five loan fields as text, exactly as they were typed
// or stored. Turning it into LoanParameters is a separate coercion step.
type RawInput struct {
	Principal string `json:"principal" yaml:"principal"`
	Rate      string `json:"rate" yaml:"rate"`
	Years     string `json:"years" yaml:"years"`
	Frequency string `json:"frequency" yaml:"frequency"`
	ProcFee   string `json:"procFee" yaml:"proc_fee"`
}

// UnmarshalJSON accepts each field as a JSON string or as a bare literal
// such as a number. Missing and null fields stay empty.
func (in *RawInput) UnmarshalJSON(data []byte) error {
	var fields struct {
		Principal json.RawMessage `json:"principal"`
		Rate      json.RawMessage `json:"rate"`
		Years     json.RawMessage `json:"years"`
		Frequency json.RawMessage `json:"frequency"`
		ProcFee   json.RawMessage `json:"procFee"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*in = RawInput{
		Principal: rawText(fields.Principal),
		Rate:      rawText(fields.Rate),
		Years:     rawText(fields.Years),
		Frequency: rawText(fields.Frequency),
		ProcFee:   rawText(fields.ProcFee),
	}
	return nil
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Input renders the parameters back into form text.
func (p LoanParameters) Input() RawInput {
	return RawInput{
		Principal: formatNumber(p.Principal),
		Rate:      formatNumber(p.AnnualRatePercent),
		Years:     strconv.Itoa(p.TenureYears),
		Frequency: strconv.Itoa(p.PaymentsPerYear),
		ProcFee:   formatNumber(p.ProcessingFee),
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
