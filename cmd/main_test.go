// 指示: miu200521358
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_pmxmerge/pkg/adapter/io_model/pmx"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/port/moutput"
)

// writeTestPmx はボーンと1面の材質を持つPMXを保存する。
func writeTestPmx(t *testing.T, path string, boneNames ...string) {
	t.Helper()
	modelData := model.NewPmxModel()
	modelData.Name = filepath.Base(path)
	for i, name := range boneNames {
		modelData.Bones = append(modelData.Bones, &model.Bone{
			Name:        name,
			ParentIndex: i - 1,
			BoneFlag:    model.BONE_FLAG_CAN_ROTATE | model.BONE_FLAG_IS_VISIBLE,
			TailIndex:   -1,
			EffectIndex: -1,
		})
	}
	for i := 0; i < 3; i++ {
		modelData.Vertices = append(modelData.Vertices, &model.Vertex{
			Position: mmath.Vec3{float32(i), 0, 0},
			Deform:   model.NewBdef1(0),
		})
	}
	modelData.Faces = append(modelData.Faces, &model.Face{VertexIndexes: [3]int{0, 1, 2}})
	modelData.Materials = append(modelData.Materials, &model.Material{
		Name:               "skin",
		TextureIndex:       -1,
		SphereTextureIndex: -1,
		ToonTextureIndex:   -1,
		VerticesCount:      3,
	})
	if err := pmx.NewPmxRepository().Save(path, modelData, moutput.SaveOptions{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
}

func writeTestInputs(t *testing.T) (string, string, string) {
	t.Helper()
	tempDir := t.TempDir()
	basePath := filepath.Join(tempDir, "base.pmx")
	patchPath := filepath.Join(tempDir, "patch.pmx")
	writeTestPmx(t, basePath, "root", "arm")
	writeTestPmx(t, patchPath, "root", "arm", "hand")
	return tempDir, basePath, patchPath
}

func TestRunMergesPmx(t *testing.T) {
	tempDir, basePath, patchPath := writeTestInputs(t)
	reportPath := filepath.Join(tempDir, "report.json")

	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	args := []string{"--base", basePath, "--patch", patchPath, "--out", "merged.pmx", "--report", reportPath, "--update", "BONE,MAT_MESH"}
	if err := run(args, outBuf, errBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	merged, err := pmx.NewPmxRepository().Load(filepath.Join(tempDir, "merged.pmx"))
	if err != nil {
		t.Fatalf("load merged failed: %v", err)
	}
	if len(merged.Bones) != 3 || merged.Bones[2].Name != "hand" {
		t.Fatalf("merged bones mismatch: %d", len(merged.Bones))
	}
	if !strings.Contains(outBuf.String(), "[mu_pmxmerge]") {
		t.Fatalf("output prefix missing: %s", outBuf.String())
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not found: %v", err)
	}
	var report minteractor.MergeReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report decode failed: %v", err)
	}
	if report.RunID == "" || len(report.Categories) == 0 {
		t.Fatalf("report content mismatch: %+v", report)
	}
	if len(report.UpdateKeys) != 3 {
		t.Fatalf("update keys mismatch: %v", report.UpdateKeys)
	}
}

func TestRunDryRunWithPositionals(t *testing.T) {
	tempDir, basePath, patchPath := writeTestInputs(t)
	outPath := filepath.Join(tempDir, "dry.pmx")

	outBuf := bytes.NewBuffer(nil)
	if err := run([]string{basePath, patchPath, outPath, "--dry-run"}, outBuf, bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("dry run must not write output: %v", err)
	}
}

func TestRunValidateOnly(t *testing.T) {
	tempDir, basePath, patchPath := writeTestInputs(t)
	brokenPath := filepath.Join(tempDir, "broken.pmx")
	writeTestPmx(t, brokenPath, "root", "root")

	outBuf := bytes.NewBuffer(nil)
	if err := run([]string{"-b", basePath, "-p", patchPath, "--validate-only"}, outBuf, bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	err := run([]string{"-b", basePath, "-p", brokenPath, "--validate-only"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil || !strings.Contains(err.Error(), "DuplicateName") {
		t.Fatalf("expected duplicate name error: %v", err)
	}
}

func TestRunRequiresInputs(t *testing.T) {
	err := run([]string{"--patch", "patch.pmx"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil || !strings.Contains(err.Error(), "--base") {
		t.Fatalf("expected base required error: %v", err)
	}
	err = run([]string{"--base", "base.pmx"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil || !strings.Contains(err.Error(), "--patch") {
		t.Fatalf("expected patch required error: %v", err)
	}
}

func TestRunRejectsUnknownPolicy(t *testing.T) {
	_, basePath, patchPath := writeTestInputs(t)
	err := run([]string{"-b", basePath, "-p", patchPath, "--append", "BONE"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected policy error")
	}
}

func TestRunUsesConfigFile(t *testing.T) {
	tempDir, basePath, patchPath := writeTestInputs(t)
	configPath := filepath.Join(tempDir, "pmxmerge.json")
	if err := os.WriteFile(configPath, []byte(`{"append": [], "text_encoding": "utf8"}`), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	outPath := filepath.Join(tempDir, "config.pmx")

	if err := run([]string{"-b", basePath, "-p", patchPath, "-o", outPath, "--config", configPath}, bytes.NewBuffer(nil), bytes.NewBuffer(nil)); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	merged, err := pmx.NewPmxRepository().Load(outPath)
	if err != nil {
		t.Fatalf("load merged failed: %v", err)
	}
	if merged.TextEncoding != model.TextEncodingUtf8 {
		t.Fatalf("text encoding override not applied: %d", merged.TextEncoding)
	}
	if len(merged.Bones) != 3 {
		t.Fatalf("bones are always appended: %d", len(merged.Bones))
	}
}
