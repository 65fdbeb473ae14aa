package preferences

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// storedRecord is the layout of the persisted blob. Version mirrors the version inside Data so that migrations can
// be chosen before Data is decoded.
type storedRecord struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Version   string          `json:"version"`
}

func encodeRecord(data interface{}, version string, cachedAt time.Time) (string, error) {
	wrapMsg := "unable to encode the preference record"

	encodedData, err := json.Marshal(data)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}

	encoded, err := json.Marshal(storedRecord{
		Data:      encodedData,
		Timestamp: cachedAt.UnixMilli(),
		Version:   version,
	})
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}

	return string(encoded), nil
}

func decodeRecord(value string) (*storedRecord, error) {
	var record storedRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, errors.Wrap(err, "unable to decode the preference record")
	}
	if len(record.Data) == 0 || string(record.Data) == "null" {
		return nil, errors.New("the preference record contains no data")
	}
	return &record, nil
}

// dataVersion returns the version of the stored data, preferring the wrapper's copy.
func (r *storedRecord) dataVersion() string {
	if r.Version != "" {
		return r.Version
	}

	var versioned struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(r.Data, &versioned); err != nil {
		return ""
	}
	return versioned.Version
}
