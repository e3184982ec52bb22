package minteractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_pmxmerge/pkg/adapter/io_model/pmx"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/merr"
)

func writeModelForTest(t *testing.T, path string, modelData *ModelData) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := pmx.NewPmxRepository().Save(path, modelData, SaveOptions{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
}

func writeMergeInputsForTest(t *testing.T, tempDir string) (string, string) {
	t.Helper()
	base := newTestModel(t, "base")
	root := base.bone("root", -1, mmath.Vec3{})
	tex := base.texture("tex/body.png")
	base.material("body", tex, base.triangle(root, 0))
	patch := newTestModel(t, "patch")
	patchRoot := patch.bone("root", -1, mmath.Vec3{})
	patch.bone("hand", patchRoot, mmath.Vec3{1, 0, 0})
	hairTex := patch.texture("tex/hair.png")
	patch.material("hair", hairTex, patch.triangle(patchRoot, 1))

	basePath := filepath.Join(tempDir, "base", "base.pmx")
	patchPath := filepath.Join(tempDir, "patch", "patch.pmx")
	writeModelForTest(t, basePath, base.build())
	writeModelForTest(t, patchPath, patch.build())
	return basePath, patchPath
}

func newFileUsecaseForTest() *PmxMergeUsecase {
	repository := pmx.NewPmxRepository()
	return NewPmxMergeUsecase(PmxMergeUsecaseDeps{ModelReader: repository, ModelWriter: repository})
}

func TestPmxMergeUsecaseMergeFiles(t *testing.T) {
	tempDir := t.TempDir()
	basePath, patchPath := writeMergeInputsForTest(t, tempDir)
	uc := newFileUsecaseForTest()

	result, err := uc.MergeFiles(context.Background(), MergeRequest{
		BasePath:   basePath,
		PatchPath:  patchPath,
		OutputPath: filepath.Join("out", "merged.pmx"),
		Options:    DefaultMergeOptions(),
	})
	if err != nil {
		t.Fatalf("merge files failed: %v", err)
	}
	wantPath := filepath.Join(tempDir, "base", "out", "merged.pmx")
	if result.OutputPath != wantPath {
		t.Fatalf("output path mismatch: got=%s want=%s", result.OutputPath, wantPath)
	}

	loaded, err := uc.LoadModel(nil, wantPath)
	if err != nil {
		t.Fatalf("load merged failed: %v", err)
	}
	if got := boneNames(loaded); !equalStrings(got, []string{"root", "hand"}) {
		t.Fatalf("bone names mismatch: %v", got)
	}
	if got := materialNames(loaded); !equalStrings(got, []string{"body", "hair"}) {
		t.Fatalf("material names mismatch: %v", got)
	}
	if len(loaded.Textures) != 2 || loaded.Textures[0].Name != "../tex/body.png" || loaded.Textures[1].Name != "../../patch/tex/hair.png" {
		t.Fatalf("texture paths mismatch: %+v", loaded.Textures)
	}
	verifyReferenceIntegrity(t, loaded)
}

func TestPmxMergeUsecaseMergeFilesKeepsSameNamedPatchTexture(t *testing.T) {
	tempDir := t.TempDir()
	base := newTestModel(t, "base")
	root := base.bone("root", -1, mmath.Vec3{})
	skinTex := base.texture("skin.png")
	base.material("body", skinTex, base.triangle(root, 0))
	patch := newTestModel(t, "patch")
	patchRoot := patch.bone("root", -1, mmath.Vec3{})
	patchSkinTex := patch.texture("skin.png")
	patchHairTex := patch.texture("hair.png")
	patch.material("hair", patchSkinTex, patch.triangle(patchRoot, 1))
	patch.material("band", patchHairTex, patch.triangle(patchRoot, 2))

	basePath := filepath.Join(tempDir, "base", "base.pmx")
	patchPath := filepath.Join(tempDir, "patch", "patch.pmx")
	writeModelForTest(t, basePath, base.build())
	writeModelForTest(t, patchPath, patch.build())
	uc := newFileUsecaseForTest()

	if _, err := uc.MergeFiles(context.Background(), MergeRequest{
		BasePath:  basePath,
		PatchPath: patchPath,
		Options:   DefaultMergeOptions(),
	}); err != nil {
		t.Fatalf("merge files failed: %v", err)
	}

	loaded, err := uc.LoadModel(nil, basePath)
	if err != nil {
		t.Fatalf("load merged failed: %v", err)
	}
	textureNames := make([]string, 0, len(loaded.Textures))
	for _, texture := range loaded.Textures {
		textureNames = append(textureNames, texture.Name)
	}
	if !equalStrings(textureNames, []string{"skin.png", "../patch/skin.png", "../patch/hair.png"}) {
		t.Fatalf("texture paths mismatch: %v", textureNames)
	}
	wantTextures := map[string]int{"body": 0, "hair": 1, "band": 2}
	for _, material := range loaded.Materials {
		if want, ok := wantTextures[material.Name]; !ok || material.TextureIndex != want {
			t.Fatalf("texture index mismatch: material=%s got=%d want=%d", material.Name, material.TextureIndex, want)
		}
	}
	verifyReferenceIntegrity(t, loaded)
}

func TestPmxMergeUsecaseMergeFilesDryRun(t *testing.T) {
	tempDir := t.TempDir()
	basePath, patchPath := writeMergeInputsForTest(t, tempDir)
	before, err := os.ReadFile(basePath)
	if err != nil {
		t.Fatalf("read base failed: %v", err)
	}

	result, err := newFileUsecaseForTest().MergeFiles(context.Background(), MergeRequest{
		BasePath:  basePath,
		PatchPath: patchPath,
		Options:   DefaultMergeOptions(),
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if result.OutputPath != basePath || result.Report == nil {
		t.Fatalf("dry run result mismatch: %+v", result)
	}
	after, err := os.ReadFile(basePath)
	if err != nil {
		t.Fatalf("read base failed: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("dry run must not overwrite base")
	}
}

func TestPmxMergeUsecaseMergeFilesRejectsSamePath(t *testing.T) {
	tempDir := t.TempDir()
	basePath, _ := writeMergeInputsForTest(t, tempDir)

	_, err := newFileUsecaseForTest().MergeFiles(context.Background(), MergeRequest{
		BasePath:  basePath,
		PatchPath: filepath.Join(filepath.Dir(basePath), ".", "base.pmx"),
		Options:   DefaultMergeOptions(),
	})
	if err == nil {
		t.Fatalf("expected same path error")
	}
}

func TestPmxMergeUsecaseValidateFiles(t *testing.T) {
	tempDir := t.TempDir()
	basePath, patchPath := writeMergeInputsForTest(t, tempDir)
	broken := newTestModel(t, "broken")
	broken.bone("root", -1, mmath.Vec3{})
	broken.bone("root", 0, mmath.Vec3{})
	brokenPath := filepath.Join(tempDir, "broken.pmx")
	writeModelForTest(t, brokenPath, broken.build())
	uc := newFileUsecaseForTest()

	if err := uc.ValidateFiles(nil, basePath, patchPath); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	err := uc.ValidateFiles(nil, basePath, brokenPath)
	if !errors.Is(err, merr.ErrDuplicateName) {
		t.Fatalf("expected duplicate name: %v", err)
	}
}

func TestPmxMergeUsecaseValidateFilesLabelsByPath(t *testing.T) {
	tempDir := t.TempDir()
	valid := newTestModel(t, "valid")
	valid.bone("root", -1, mmath.Vec3{})
	broken := newTestModel(t, "broken")
	broken.bone("root", -1, mmath.Vec3{})
	broken.bone("root", 0, mmath.Vec3{})
	validPath := filepath.Join(tempDir, "base", "model.pmx")
	brokenPath := filepath.Join(tempDir, "patch", "model.pmx")
	writeModelForTest(t, validPath, valid.build())
	writeModelForTest(t, brokenPath, broken.build())

	err := newFileUsecaseForTest().ValidateFiles(nil, validPath, brokenPath)
	var pmxErr *merr.PmxError
	if !errors.As(err, &pmxErr) {
		t.Fatalf("expected typed validation error: %v", err)
	}
	if pmxErr.ModelLabel != brokenPath {
		t.Fatalf("model label mismatch: got=%s want=%s", pmxErr.ModelLabel, brokenPath)
	}
	if strings.Contains(err.Error(), validPath) {
		t.Fatalf("valid model must not be reported: %v", err)
	}
}

func TestResolveOutputPath(t *testing.T) {
	basePath := filepath.Join("models", "base.pmx")
	testCases := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{name: "default overwrites base", output: "", want: filepath.Join("models", "base.pmx")},
		{name: "relative to base dir", output: "merged.pmx", want: filepath.Join("models", "merged.pmx")},
		{name: "absolute", output: filepath.Join(string(filepath.Separator), "tmp", "out.PMX"), want: filepath.Join(string(filepath.Separator), "tmp", "out.PMX")},
		{name: "wrong extension", output: "merged.pmd", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveOutputPath(basePath, tc.output)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error: got=%s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("path mismatch: got=%s want=%s", got, tc.want)
			}
		})
	}
}
