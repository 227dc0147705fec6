package exposition

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/prometheus/common/model"

	"github.com/turboflakes/grade-exporter/pkg/types"
)

// Metric family names.
const (
	GradeMetric       = "polka_validator_grade_value"
	MissedVotesMetric = "polka_validator_missed_votes_total"
	UpMetric          = "polka_exporter_up"
)

// NoTargetsLine is the whole payload when no targets are configured.
const NoTargetsLine = "# No TARGET_URLS configured"

// Label names.
const (
	LabelValidator model.LabelName = "validator"
	LabelNetwork   model.LabelName = "network"
	LabelName      model.LabelName = "name"
	LabelGrade     model.LabelName = "grade"
)

var families = []struct {
	name string
	help string
}{
	{GradeMetric, "Validator grade numeric (1=A+,2=A,3=B,4=B+,5=C,6=D,7=F) with grade label"},
	{MissedVotesMetric, "Missed votes total"},
	{UpMetric, "1 if fetch ok for this validator, else 0"},
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

type label struct {
	name  model.LabelName
	value string
}

// Render returns the exposition payload for results, which must be in
// target order and include dropped targets. An empty results slice means no
// targets are configured.
func Render(results []types.TargetResult) []byte {
	var b bytes.Buffer
	if len(results) == 0 {
		b.WriteString(NoTargetsLine + "\n")
		return b.Bytes()
	}

	for _, f := range families {
		b.WriteString("# HELP " + f.name + " " + f.help + "\n")
		b.WriteString("# TYPE " + f.name + " gauge\n")
	}

	for _, r := range results {
		id := identity(r)
		switch r.Outcome {
		case types.OutcomeUp:
			graded := append(id[:len(id):len(id)], label{LabelGrade, string(r.Record.Grade)})
			writeSample(&b, GradeMetric, graded, strconv.Itoa(r.Record.Grade.Value()))
			writeSample(&b, MissedVotesMetric, id, strconv.FormatInt(r.Record.MissedVotes, 10))
			writeSample(&b, UpMetric, id, "1")
		case types.OutcomeDown:
			writeSample(&b, UpMetric, id, "0")
		}
	}
	return b.Bytes()
}

// identity returns the validator, network and name labels of r.
func identity(r types.TargetResult) []label {
	name := r.Name
	if name == "" {
		name = r.Target.ValidatorID
	}
	return []label{
		{LabelValidator, r.Target.ValidatorID},
		{LabelNetwork, r.Target.Network},
		{LabelName, name},
	}
}

func writeSample(b *bytes.Buffer, metric string, labels []label, value string) {
	b.WriteString(metric)
	b.WriteByte('{')
	for i, l := range labels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(l.name))
		b.WriteString(`="`)
		b.WriteString(EscapeLabelValue(l.value))
		b.WriteByte('"')
	}
	b.WriteString("} ")
	b.WriteString(value)
	b.WriteByte('\n')
}

// EscapeLabelValue escapes backslash, double quote and newline, and replaces
// invalid UTF-8 so v can be placed between double quotes in a label pair.
func EscapeLabelValue(v string) string {
	if !model.LabelValue(v).IsValid() {
		v = strings.ToValidUTF8(v, "\uFFFD")
	}
	return labelEscaper.Replace(v)
}
