package source

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"eaccal/internal/model"
)

// demoModuleTypes rotate through the module meetings, indexed by day % 6.
var demoModuleTypes = []model.EventType{
	model.TypeEncontro,
	model.TypeCantina,
	model.TypeCirculo,
	model.TypePosEncontro,
	model.TypeMissa,
	model.TypePreparacao,
}

// Demo is an offline Transport producing a stable sample agenda: a module
// meeting every fifth day of the month from 19:00 to 21:00 and a Sunday mass
// every seventh day at 08:00.
type Demo struct {
	// Now anchors the generated window; time.Now when nil.
	Now func() time.Time
	// Months is how many months before and after Now are generated.
	Months int
}

// NewDemo returns a Demo covering a year on each side of the current month.
func NewDemo() *Demo {
	return &Demo{Now: time.Now, Months: 12}
}

// FetchRaw implements Transport.
func (d *Demo) FetchRaw(ctx context.Context) ([]model.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	months := d.Months
	if months <= 0 {
		months = 12
	}

	t := now()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := first.AddDate(0, -months, 0)
	until := first.AddDate(0, months+1, -1)

	modules, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.MONTHLY,
		Dtstart:    from,
		Until:      until,
		Bymonthday: []int{5, 10, 15, 20, 25, 30},
	})
	if err != nil {
		return nil, err
	}
	masses, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.MONTHLY,
		Dtstart:    from,
		Until:      until,
		Bymonthday: []int{7, 14, 21, 28},
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.RawEvent, 0)
	for _, day := range modules.All() {
		et := demoModuleTypes[day.Day()%len(demoModuleTypes)]
		out = append(out, model.RawEvent{
			ID:       model.FlexString(fmt.Sprintf("demo-%s-1", day.Format("2006-01-02"))),
			Activity: model.FlexString(string(et) + " Mensal"),
			Category: model.FlexString(et),
			Start:    model.FlexString(day.Format("02/01/2006") + " 19:00"),
			End:      model.FlexString(day.Format("02/01/2006") + " 21:00"),
			Location: "Salão Paroquial",
			Status:   "Confirmado",
		})
	}
	for _, day := range masses.All() {
		out = append(out, model.RawEvent{
			ID:       model.FlexString(fmt.Sprintf("demo-%s-2", day.Format("2006-01-02"))),
			Activity: "Missa de Domingo",
			Start:    model.FlexString(day.Format("2006-01-02") + "T08:00:00"),
			Location: "Igreja Matriz",
		})
	}
	return out, nil
}
