package report

import (
	"io"
	"math"
	"strconv"

	"github.com/aouyang1/go-fwdselect/selection"
	"github.com/aouyang1/go-fwdselect/stats"

	"github.com/goccy/go-json"
)

// Float is a float64 that encodes non-finite values as the strings "+Inf", "-Inf" and "NaN".
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = Float(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func floats(v []float64) []Float {
	if v == nil {
		return nil
	}
	out := make([]Float, len(v))
	for i, x := range v {
		out[i] = Float(x)
	}
	return out
}

// MetricsDoc is the JSON form of stats.Metrics.
type MetricsDoc struct {
	RSS    Float `json:"rss"`
	TSS    Float `json:"tss"`
	Sigma2 Float `json:"sigma2"`
	R2     Float `json:"r_squared"`
	R2Adj  Float `json:"adjusted_r_squared"`
	F      Float `json:"f_statistic"`
	N      int   `json:"n"`
	P      int   `json:"p"`
}

// FullFitDoc is the JSON form of selection.FullFitResult.
type FullFitDoc struct {
	Attributes    []string         `json:"attributes"`
	Coef          []Float          `json:"coef"`
	Metrics       MetricsDoc       `json:"metrics"`
	SquaredStdErr []Float          `json:"squared_std_err"`
	CoefStdErr    []Float          `json:"coef_std_err"`
	VIF           map[string]Float `json:"vif,omitempty"`
	Outliers      []int            `json:"outliers,omitempty"`
}

// TrialDoc is the JSON form of selection.Trial.
type TrialDoc struct {
	Attribute string `json:"attribute"`
	RSS       Float  `json:"rss"`
	Singular  bool   `json:"singular"`
}

// RoundDoc is the JSON form of selection.Round.
type RoundDoc struct {
	Index      int        `json:"index"`
	Attributes []string   `json:"attributes"`
	RSS        Float      `json:"rss"`
	Found      bool       `json:"found"`
	Tried      int        `json:"tried"`
	Failed     int        `json:"failed"`
	Trials     []TrialDoc `json:"trials,omitempty"`
}

// Document is the JSON form of a Report.
type Document struct {
	Seed     uint64     `json:"seed"`
	Target   string     `json:"target"`
	FullFit  FullFitDoc `json:"full_fit"`
	Rounds   []RoundDoc `json:"rounds"`
	Best     RoundDoc   `json:"best"`
	BestSize int        `json:"best_size"`
}

func newMetricsDoc(m *stats.Metrics) MetricsDoc {
	return MetricsDoc{
		RSS:    Float(m.RSS),
		TSS:    Float(m.TSS),
		Sigma2: Float(m.Sigma2),
		R2:     Float(m.R2),
		R2Adj:  Float(m.R2Adj),
		F:      Float(m.F),
		N:      m.N,
		P:      m.P,
	}
}

func newRoundDoc(r selection.Round) RoundDoc {
	doc := RoundDoc{
		Index:      r.Index,
		Attributes: r.Attributes,
		RSS:        Float(r.RSS),
		Found:      r.Found,
		Tried:      r.Tried,
		Failed:     r.Failed,
	}
	for _, trial := range r.Trials {
		doc.Trials = append(doc.Trials, TrialDoc{
			Attribute: trial.Attribute,
			RSS:       Float(trial.RSS),
			Singular:  trial.Singular,
		})
	}
	return doc
}

// NewDocument converts r into its JSON form.
func NewDocument(r *Report) (*Document, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	full := r.Full
	doc := &Document{
		Seed:   r.Seed,
		Target: r.Target,
		FullFit: FullFitDoc{
			Attributes:    full.Attributes,
			Coef:          floats(full.Coef),
			Metrics:       newMetricsDoc(full.Metrics),
			SquaredStdErr: floats(full.SquaredStdErr),
			CoefStdErr:    floats(full.CoefStdErr),
			Outliers:      full.Outliers,
		},
		Rounds:   make([]RoundDoc, 0, len(r.Selection.Rounds)),
		Best:     newRoundDoc(r.Selection.Best),
		BestSize: len(r.Selection.Best.Attributes),
	}
	if len(full.VIF) > 0 {
		doc.FullFit.VIF = make(map[string]Float, len(full.VIF))
		for name, v := range full.VIF {
			doc.FullFit.VIF[name] = Float(v)
		}
	}
	for _, round := range r.Selection.Rounds {
		doc.Rounds = append(doc.Rounds, newRoundDoc(round))
	}
	return doc, nil
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	doc, err := NewDocument(r)
	if err != nil {
		return err
	}

	bytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')
	_, err = w.Write(bytes)
	return err
}
