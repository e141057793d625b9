package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"route-creator/internal/session"
)

// CSV renders one row per labeled stop under a Label,Longitude,Latitude header.
func CSV(st session.State) ([]byte, error) {
	if err := requireRoute(st); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Label", "Longitude", "Latitude"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range st.Points() {
		if err := w.Write([]string{p.Label, formatFloat(p.Lon), formatFloat(p.Lat)}); err != nil {
			return nil, fmt.Errorf("write csv row %q: %w", p.Label, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
