package encode

import (
	"fmt"
	"time"

	"github.com/urbansense/sensoragg/internal/dataset"
	"github.com/urbansense/sensoragg/internal/types"
)

type aggStationRow struct {
	Time          time.Time `parquet:"time"`
	Station       string    `parquet:"Station,dict"`
	FMISID        int64     `parquet:"fmisid"`
	Temperature   *float32  `parquet:"temperature,optional"`
	Humidity      *float32  `parquet:"humidity,optional"`
	CloudAmount   *float32  `parquet:"cloud_amount,optional"`
	Precipitation *float32  `parquet:"precipitation,optional"`
}

// WriteAggregatedStations persists aggregated station readings to path in
// the same compact form as the device aggregate: float32 metrics and the
// station name restricted to the closed allow-list.
func WriteAggregatedStations(path string, readings []types.AggregatedStationReading, categories []string, obs Observer) error {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c] = struct{}{}
	}

	rows := make([]aggStationRow, len(readings))
	for i, r := range readings {
		if _, ok := known[r.Station]; !ok {
			return fmt.Errorf("station %q not in the allow-list category set", r.Station)
		}
		rows[i] = aggStationRow{
			Time:          r.BucketEnd,
			Station:       r.Station,
			FMISID:        r.FMISID,
			Temperature:   downcast(r.Temperature),
			Humidity:      downcast(r.Humidity),
			CloudAmount:   downcast(r.CloudAmount),
			Precipitation: downcast(r.Precipitation),
		}
	}

	if err := dataset.Write(path, rows); err != nil {
		return err
	}
	obs.ArtifactWritten(path, len(rows))
	return nil
}
