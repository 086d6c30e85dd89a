package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"agrimarket-delivery/internal/domain"
)

// Render writes a plain-text panel of v.
func Render(w io.Writer, v View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	line := func(k, format string, args ...any) {
		fmt.Fprintf(tw, "%s\t%s\n", k, fmt.Sprintf(format, args...))
	}

	line("order", "%s", v.OrderID)
	if v.Mode == ModeError {
		line("error", "%s", v.Err)
		return tw.Flush()
	}
	d := v.Delivery
	if d == nil {
		line("delivery", "-")
		return tw.Flush()
	}

	b := domain.Badge(d.Status)
	line("delivery", "%s", d.ID)
	line("tracking", "%s", d.TrackingNumber)
	line("status", "%s (%s)", b.Label, b.Color)
	if d.EstimatedDeliveryTime != nil {
		line("eta", "%s", d.EstimatedDeliveryTime.Format(time.RFC3339))
	}

	switch v.Mode {
	case ModeAssigned:
		line("driver", "%s, %s", d.Driver.Name, d.Driver.Phone)
		if d.Vehicle != nil {
			line("vehicle", "%s %s", d.Vehicle.Type, d.Vehicle.Plate)
		}
	default:
		line("driver", "not assigned")
	}
	if d.SellerNotes != "" {
		line("notes", "%s", d.SellerNotes)
	}

	next := make([]string, 0, len(v.Next))
	for _, s := range v.Next {
		next = append(next, string(s))
	}
	if len(next) == 0 {
		line("next", "-")
	} else {
		line("next", "%s", strings.Join(next, ", "))
	}
	return tw.Flush()
}
