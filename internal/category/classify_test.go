package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eaccal/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want model.EventType
	}{
		{"Missa de Domingo", model.TypeMissa},
		{"Reunião de Círculo", model.TypeCirculo},
		{"Reuniao de Circulo", model.TypeCirculo},
		{"Bingo da comunidade", model.TypeOutro},
		{"", model.TypeOutro},
		{"   ", model.TypeOutro},
		{"Cantina do EAC", model.TypeCantina},
		{"Pós-Encontro", model.TypePosEncontro},
		{"Pos Encontro dos jovens", model.TypePosEncontro},
		{"Preparação Encontro", model.TypePreparacao},
		{"Encontro EAC 2024", model.TypeEncontro},
		{"Reunião Geral", model.TypeReuniao},
		{"Início do Advento", model.TypeTempoLiturgic},
		{"Solenidade de Pentecostes", model.TypeSolenidade},
		{"Natal do Senhor", model.TypeSolenidade},
		{"Nossa Senhora Aparecida", model.TypeDatasMarianas},
		{"Festa de São Francisco", model.TypeFestaSantos},
		{"Formação pastoral", model.TypeEncontro},
		{"EUCARISTIA", model.TypeMissa},
		{"Adoração Eucarística", model.TypeMissa},
		{"Reunião da Comissão", model.TypeReuniao},
		{"Encontro da Comissão de Liturgia", model.TypeEncontro},
		{"Aniversário da Natália", model.TypeOutro},
		{"Cantina da Mariana", model.TypeCantina},
		{"Quarta-feira de Cinzas", model.TypeTempoLiturgic},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// Liturgical markers win over the mass and encounter rules.
	assert.Equal(t, model.TypeTempoLiturgic, Classify("Missa de Quaresma"))
	assert.Equal(t, model.TypeTempoLiturgic, Classify("Encontro do Advento"))
	// Solemnity wins over Marian markers.
	assert.Equal(t, model.TypeSolenidade, Classify("Solenidade da Assunção"))
	// Mass wins over the small group rule.
	assert.Equal(t, model.TypeMissa, Classify("Missa do Círculo"))
	// Preparation wins over general meeting and encounter.
	assert.Equal(t, model.TypePreparacao, Classify("Reunião de preparação do encontro"))
}

func TestClassifyAccentInsensitive(t *testing.T) {
	assert.Equal(t, Classify("Círculo"), Classify("Circulo"))
	assert.Equal(t, Classify("REUNIÃO"), Classify("reuniao"))
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, model.TypeMissa, Classify("Missa de Domingo"))
	}
}

func TestMatchReportsRule(t *testing.T) {
	tag, name := Match("Cantina")
	assert.Equal(t, model.TypeCantina, tag)
	assert.Equal(t, "canteen", name)

	tag, name = Match("Bingo")
	assert.Equal(t, model.TypeOutro, tag)
	assert.Empty(t, name)
}
