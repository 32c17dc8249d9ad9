package storage

import (
	"encoding/json"
	"errors"

	"queenside/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeTrial(tr model.TrialRecord) ([]byte, error) {
	return json.Marshal(tr)
}

func DecodeTrial(data []byte) (model.TrialRecord, error) {
	var trial model.TrialRecord
	if err := json.Unmarshal(data, &trial); err != nil {
		return model.TrialRecord{}, err
	}
	if err := checkVersion(trial.VersionedRecord); err != nil {
		return model.TrialRecord{}, err
	}
	return trial, nil
}

func EncodeTrialStats(stats []model.GenerationStats) ([]byte, error) {
	return json.Marshal(stats)
}

func DecodeTrialStats(data []byte) ([]model.GenerationStats, error) {
	var stats []model.GenerationStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
