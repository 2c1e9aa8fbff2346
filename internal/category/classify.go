// Package category maps free-text activity names and categories to an
// EventType.
package category

import (
	"eaccal/internal/model"
	"eaccal/internal/textnorm"
)

type rule struct {
	name     string
	keywords []string
	tag      model.EventType
}

// rules are evaluated top to bottom and the first hit wins. Keywords are
// matched as whole words of the folded text, and the order matters: the
// liturgical and feast markers must be seen before the generic "encontro"
// checks, and "pos encontro" before "encontro".
var rules = []rule{
	{
		name: "liturgical-season",
		keywords: []string{
			"tempo liturgico", "advento", "quaresma", "tempo pascal", "tempo comum",
			"semana santa", "triduo", "quarta-feira de cinzas", "cinzas", "domingo de ramos",
		},
		tag: model.TypeTempoLiturgic,
	},
	{
		name: "solemnity",
		keywords: []string{
			"solenidade", "natal", "pascoa", "pentecostes", "corpus christi", "santissima trindade",
			"cristo rei", "epifania", "ascensao do senhor", "sagrado coracao",
		},
		tag: model.TypeSolenidade,
	},
	{
		name: "marian",
		keywords: []string{
			"nossa senhora", "virgem maria", "mae de deus", "imaculada", "assuncao",
			"aparecida", "rosario", "datas marianas", "data mariana", "mes de maria",
		},
		tag: model.TypeDatasMarianas,
	},
	{
		name: "saints",
		keywords: []string{
			"festa de sao", "festa de santo", "festa de santa", "festa dos santos", "todos os santos",
			"dia de sao", "dia de santo", "dia de santa", "padroeiro", "padroeira", "santo antonio",
			"sao francisco", "sao jose", "sao joao", "sao pedro", "festa junina",
		},
		tag: model.TypeFestaSantos,
	},
	{
		name:     "mass",
		keywords: []string{"missa", "missas", "eucaristia", "eucaristica", "eucaristico", "adoracao"},
		tag:      model.TypeMissa,
	},
	{
		name:     "post-meeting",
		keywords: []string{"pos-encontro", "pos encontro", "posencontro"},
		tag:      model.TypePosEncontro,
	},
	{
		name:     "meeting-preparation",
		keywords: []string{"preparacao", "pre-encontro", "pre encontro", "preencontro"},
		tag:      model.TypePreparacao,
	},
	{
		name:     "small-group",
		keywords: []string{"circulo"},
		tag:      model.TypeCirculo,
	},
	{
		name:     "canteen",
		keywords: []string{"cantina"},
		tag:      model.TypeCantina,
	},
	{
		name:     "general-meeting",
		keywords: []string{"reuniao", "assembleia", "coordenacao"},
		tag:      model.TypeReuniao,
	},
	{
		name:     "encounter",
		keywords: []string{"encontro", "retiro"},
		tag:      model.TypeEncontro,
	},
	{
		name:     "pastoral",
		keywords: []string{"pastoral", "catequese", "formacao", "palestra"},
		tag:      model.TypeEncontro,
	},
}

// Classify returns the EventType for text, or model.TypeOutro when no rule
// matches.
func Classify(text string) model.EventType {
	t, _ := Match(text)
	return t
}

// Match is Classify plus the name of the rule that fired ("" for none).
func Match(text string) (model.EventType, string) {
	folded := textnorm.Fold(text)
	if folded == "" {
		return model.TypeOutro, ""
	}
	for _, r := range rules {
		if textnorm.ContainsWords(folded, r.keywords...) {
			return r.tag, r.name
		}
	}
	return model.TypeOutro, ""
}
