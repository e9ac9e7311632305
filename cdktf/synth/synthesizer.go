package synth

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
	"github.com/cdktf-core/synth/cdktf/crossstack"
	"github.com/cdktf-core/synth/cdktf/elements"
	"github.com/cdktf-core/synth/cdktf/logging"
	"github.com/cdktf-core/synth/cdktf/stack"
)

// Synth runs the full pipeline of spec §4.G: prepare, validate,
// synthesize, manifest. It returns a ValidationFailed error carrying every
// accumulated problem if validation fails, and aborts before writing
// anything to disk in that case.
func (a *App) Synth() error {
	log := logging.Logger
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("synthesis starting", zap.String("app", a.cfg.AppName), zap.Int("stacks", len(a.stacks)))

	if err := a.prepare(); err != nil {
		return err
	}
	if err := a.validate(); err != nil {
		return err
	}
	order, err := a.deps.TopoSort()
	if err != nil {
		return err
	}

	manifest := newManifest()
	outDir := a.cfg.OutDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return cdktferrors.Wrap(cdktferrors.IOError, "creating output directory", err)
	}

	scopes := a.elementScopes()

	for _, name := range order {
		s, ok := a.stacks[name]
		if !ok {
			// TopoSort may include dependency-only names never registered
			// as a real stack (e.g. a typo in add_dependency); that is a
			// validation bug the validate phase should already have
			// caught, but degrade gracefully rather than panic.
			continue
		}
		s.MarkValidated()

		rewriter := crossstack.New(name, scopes, a.deps, a.table, a.table.DefaultResolver())
		doc, err := s.ToTerraform(rewriter.Resolve, a.table)
		if err != nil {
			return err
		}

		stackDir := filepath.Join(outDir, "stacks", name)
		if err := os.MkdirAll(stackDir, 0o755); err != nil {
			return cdktferrors.Wrap(cdktferrors.IOError, "creating stack directory", err)
		}
		if err := writeJSON(filepath.Join(stackDir, "cdk.tf.json"), doc); err != nil {
			return err
		}

		assets, err := a.stageAssets(s, outDir)
		if err != nil {
			return err
		}

		manifest.Stacks[name] = manifestStack{
			Name:                 name,
			ConstructPath:        s.Node().Path(),
			SynthesizedStackPath: filepath.Join("stacks", name, "cdk.tf.json"),
			WorkingDirectory:     stackDir,
			Annotations:          []string{},
			Dependencies:         s.Dependencies(),
		}

		log.Info("stack synthesized", zap.String("stack", name), zap.String("path", stackDir), zap.Int("assets", len(assets)))
	}

	if err := writeJSON(filepath.Join(outDir, "manifest.json"), manifest); err != nil {
		return err
	}

	log.Info("synthesis complete", zap.String("outdir", outDir))
	return nil
}

// elementScopes builds the crossstack.ElementScope lookup the rewriter
// needs, one entry per registered stack.
func (a *App) elementScopes() map[string]crossstack.ElementScope {
	scopes := make(map[string]crossstack.ElementScope, len(a.stacks))
	for name, s := range a.stacks {
		scopes[name] = s
	}
	return scopes
}

// prepare implements spec §4.G step 1: depth-first, ancestor-aspects-
// before-local, then per-stack backend setup, then a whole-app cross-stack
// discovery pass.
func (a *App) prepare() error {
	for _, n := range a.root.FindAll() {
		n.ApplyAspects()
	}
	for _, s := range a.stacks {
		if err := s.PrepareStack(); err != nil {
			return err
		}
	}
	return a.discoverCrossStackReferences()
}

// discoverCrossStackReferences scans every stack's elements for Ref tokens
// defined in a different stack and eagerly materializes the paired
// Output/DataSource elements spec §4.F needs, before any stack takes its
// synthesis snapshot. Without this, a reference discovered only while
// synthesizing the consumer stack could insert an Output into a source
// stack whose own document was already written to disk earlier in
// topological order; running discovery first means every stack's own
// snapshot already contains whatever cross-stack plumbing it needs. Each
// stack's own per-stack rewriter in the main synthesis loop then finds
// these elements already present (EnsureOutput/EnsureRemoteStateDataSource
// are idempotent) and simply performs the final text substitution.
func (a *App) discoverCrossStackReferences() error {
	scopes := a.elementScopes()
	for name, s := range a.stacks {
		rewriter := crossstack.New(name, scopes, a.deps, a.table, a.table.DefaultResolver())
		for _, el := range s.Elements() {
			frag, err := el.ToTerraform()
			if err != nil {
				return err
			}
			for _, ref := range a.table.CollectRefs(frag) {
				if ref.SourceStack == "" || ref.SourceStack == name {
					continue
				}
				if _, err := rewriter.Resolve(ref); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validate implements spec §4.G step 2: per-node validations plus the
// structural checks implemented by each element's Validate method, plus
// the stack dependency cycle check. Every problem is collected before
// aborting.
func (a *App) validate() error {
	var verrs cdktferrors.ValidationErrors
	for _, n := range a.root.FindAll() {
		for _, v := range n.Validations() {
			for _, msg := range v.Validate() {
				verrs.Addf(n.Path(), "%s", msg)
			}
		}
	}
	if _, err := a.deps.TopoSort(); err != nil {
		verrs.Add(err)
	}
	if verrs.HasErrors() {
		return verrs.AsError()
	}
	return nil
}

// stageAssets copies every Asset element found under stack s's subtree
// into <outdir>/assets/, using a uuid-named staging directory so two
// synthesis runs against the same outdir never collide mid-copy, then
// renaming into the deterministic final path addressed by Asset.Hash
// (SPEC_FULL supplemented feature grounded in spec §4.G step 3 "copy any
// assets referenced by the stack"). Returns the staged relative paths.
func (a *App) stageAssets(s *stack.Stack, outDir string) ([]string, error) {
	var staged []string
	for _, n := range s.Node().FindAll() {
		asset, ok := n.Payload.(*elements.Asset)
		if !ok {
			continue
		}
		dest := filepath.Join(outDir, asset.StagedRelativePath())
		if _, err := os.Stat(dest); err == nil {
			staged = append(staged, asset.StagedRelativePath())
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, cdktferrors.Wrap(cdktferrors.IOError, "creating asset directory", err)
		}
		stagingDir := filepath.Join(outDir, "assets", ".staging-"+uuid.NewString())
		if err := os.MkdirAll(stagingDir, 0o755); err != nil {
			return nil, cdktferrors.Wrap(cdktferrors.IOError, "creating asset staging directory", err)
		}
		defer os.RemoveAll(stagingDir)

		scratch := filepath.Join(stagingDir, filepath.Base(asset.SourcePath))
		if err := copyAsset(asset, scratch); err != nil {
			return nil, cdktferrors.Wrap(cdktferrors.IOError, "staging asset "+asset.SourcePath, err)
		}
		if err := os.Rename(scratch, dest); err != nil {
			return nil, cdktferrors.Wrap(cdktferrors.IOError, "finalizing asset "+asset.SourcePath, err)
		}
		staged = append(staged, asset.StagedRelativePath())
	}
	return staged, nil
}

func copyAsset(asset *elements.Asset, dest string) error {
	if asset.Type == elements.AssetTypeDirectory {
		return copyDir(asset.SourcePath, dest)
	}
	return copyFile(asset.SourcePath, dest)
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func copyDir(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
