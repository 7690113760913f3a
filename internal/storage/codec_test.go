package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"fabula/internal/model"
)

func TestDecodeSkeletonRecordFixture(t *testing.T) {
	record := decodeSkeletonFixture(t, "minimal_skeleton_v1.json")
	if record.ID != "skeleton-minimal-1" {
		t.Fatalf("unexpected record id: %s", record.ID)
	}
	if record.RunID != "run-minimal-1" {
		t.Fatalf("unexpected run id: %s", record.RunID)
	}
	if len(record.Skeleton.Atoms) != 2 {
		t.Fatalf("unexpected atom count: %d", len(record.Skeleton.Atoms))
	}
	if record.Skeleton.SpreadPositions["protagonist"] != "the cartographer" {
		t.Fatalf("unexpected spread positions: %+v", record.Skeleton.SpreadPositions)
	}
}

func TestDecodeRunRecordFixture(t *testing.T) {
	path := fixturePath("minimal_run_v1.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	record, err := DecodeRunRecord(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if record.ID != "run-minimal-1" {
		t.Fatalf("unexpected run id: %s", record.ID)
	}
	if record.Config.Evolution.Generations != 5 {
		t.Fatalf("unexpected config: %+v", record.Config)
	}
	if record.BestScore != 0.73 {
		t.Fatalf("unexpected best score: %f", record.BestScore)
	}
}

func TestSkeletonRecordCodecRoundTrip(t *testing.T) {
	input := skeletonRecord("sk-1", "run-1")

	encoded, err := EncodeSkeletonRecord(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSkeletonRecord(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.ID != input.ID {
		t.Fatalf("id mismatch: got=%s want=%s", decoded.ID, input.ID)
	}
	if len(decoded.Skeleton.Atoms) != len(input.Skeleton.Atoms) {
		t.Fatalf("atom count mismatch: got=%d want=%d", len(decoded.Skeleton.Atoms), len(input.Skeleton.Atoms))
	}
}

func TestSkeletonRecordCodecRoundTripFixtureEquality(t *testing.T) {
	expected := decodeSkeletonFixture(t, "minimal_skeleton_v1.json")

	encoded, err := EncodeSkeletonRecord(expected)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	actual, err := DecodeSkeletonRecord(encoded)
	if err != nil {
		t.Fatalf("decode roundtrip: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("roundtrip mismatch\nactual=%+v\nexpected=%+v", actual, expected)
	}
}

func TestRunRecordCodecRoundTrip(t *testing.T) {
	input := model.RunRecord{
		VersionedRecord: Stamp(),
		ID:              "run-1",
		Config:          model.DefaultGenerationConfig(),
		GenerationsRun:  3,
		BestScore:       0.5,
	}

	encoded, err := EncodeRunRecord(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRunRecord(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.ID != input.ID || decoded.GenerationsRun != input.GenerationsRun {
		t.Fatalf("decoded run mismatch: got=%+v want=%+v", decoded, input)
	}
}

func TestFitnessHistoryCodecRoundTrip(t *testing.T) {
	input := []float64{0.1, 0.4, 0.8}
	encoded, err := EncodeFitnessHistory(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeFitnessHistory(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, input) {
		t.Fatalf("decoded history mismatch: got=%+v want=%+v", decoded, input)
	}
}

func TestDecodeSkeletonRecordVersionMismatch(t *testing.T) {
	record := decodeSkeletonFixture(t, "minimal_skeleton_v1.json")
	record.CodecVersion++

	encoded, err := EncodeSkeletonRecord(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, err = DecodeSkeletonRecord(encoded)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestDecodeRunRecordVersionMismatch(t *testing.T) {
	input := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion + 1, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
	}
	encoded, err := EncodeRunRecord(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = DecodeRunRecord(encoded)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}

func decodeSkeletonFixture(t *testing.T, name string) model.SkeletonRecord {
	t.Helper()

	data, err := os.ReadFile(fixturePath(name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	record, err := DecodeSkeletonRecord(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return record
}
