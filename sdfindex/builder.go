// Package sdfindex is the index builder and query engine: it classifies
// source files, drives the streaming parser, writes the persistent tables,
// and resolves lookup keys back to byte ranges and record bytes. It is the
// only package that imports both sdfparse and sdfstore, the seam between
// the streaming reader and the on-disk index builder.
package sdfindex

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/rpcpool/pubchem-faithful/locator"
	"github.com/rpcpool/pubchem-faithful/sdfparse"
	"github.com/rpcpool/pubchem-faithful/sdfstore"
)

var log = logging.Logger("sdfindex")

// ProgressReporter receives a call for every record indexed; it is
// satisfied directly by *progressbar.ProgressBar, which the CLI wires in
// for the `build` subcommand.
type ProgressReporter interface {
	Add(n int) error
}

// BuildOptions configures BuildIndex. All fields have workable zero values.
type BuildOptions struct {
	MapSize    int64
	TxPerFile  int
	PLPageSize uint32

	CompoundPatterns  []string
	ConformerPatterns []string
	CIDFields         []string
	ConformerIDFields []string
	ParentCIDFields   []string

	Progress ProgressReporter
	Verbose  bool
}

func (o *BuildOptions) setDefaults() {
	if o.TxPerFile <= 0 {
		o.TxPerFile = 1
	}
	if o.PLPageSize == 0 {
		o.PLPageSize = sdfstore.DefaultPostingListPageSize
	}
	if len(o.CompoundPatterns) == 0 {
		o.CompoundPatterns = DefaultCompoundNamePatterns
	}
	if len(o.ConformerPatterns) == 0 {
		o.ConformerPatterns = DefaultConformerNamePatterns
	}
	if len(o.CIDFields) == 0 {
		o.CIDFields = sdfparse.DefaultCIDFields
	}
	if len(o.ConformerIDFields) == 0 {
		o.ConformerIDFields = sdfparse.DefaultConformerIDFields
	}
	if len(o.ParentCIDFields) == 0 {
		o.ParentCIDFields = sdfparse.DefaultParentCIDFields
	}
}

// storeFileName is the bbolt file created inside the index directory.
const storeFileName = "index.bolt"

// BuildIndex walks rootDir for *.sdf files and writes a complete index into
// indexDir, creating it if needed. Re-running BuildIndex over an existing
// indexDir overwrites entries with matching keys (full rebuild by
// overwrite); it does not garbage-collect entries from files that have
// since disappeared.
func BuildIndex(ctx context.Context, rootDir, indexDir string, opts BuildOptions) (sdfstore.Meta, error) {
	explicitPageSize := opts.PLPageSize
	opts.setDefaults()

	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return sdfstore.Meta{}, fmt.Errorf("sdfindex: create index dir: %w", err)
	}

	storeOpts := []sdfstore.Option{}
	if opts.MapSize > 0 {
		storeOpts = append(storeOpts, sdfstore.WithMapSize(opts.MapSize))
	}
	store, err := sdfstore.Open(filepath.Join(indexDir, storeFileName), storeOpts...)
	if err != nil {
		return sdfstore.Meta{}, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	defer store.Close()

	if err := store.View(func(tx *sdfstore.Tx) error { return tx.CheckSchema() }); err != nil {
		return sdfstore.Meta{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	// An index that already records a build keeps its posting-list page
	// size unless the caller sets one explicitly.
	if explicitPageSize == 0 {
		if err := store.View(func(tx *sdfstore.Tx) error {
			m, ok, err := tx.GetMeta()
			if err == nil && ok && m.PLPageSize > 0 {
				opts.PLPageSize = m.PLPageSize
			}
			return err
		}); err != nil {
			return sdfstore.Meta{}, fmt.Errorf("%w: %v", ErrStoreIO, err)
		}
	}

	relPaths, err := walkSDFFiles(rootDir)
	if err != nil {
		return sdfstore.Meta{}, fmt.Errorf("%w: %v", ErrFileIO, err)
	}
	log.Infof("found %d SDF files under %s", len(relPaths), rootDir)

	b := &builder{
		store: store,
		opts:  opts,
	}

	for batchStart := 0; batchStart < len(relPaths); batchStart += opts.TxPerFile {
		if err := ctx.Err(); err != nil {
			return sdfstore.Meta{}, err
		}
		end := batchStart + opts.TxPerFile
		if end > len(relPaths) {
			end = len(relPaths)
		}
		batch := relPaths[batchStart:end]
		if err := store.Update(func(tx *sdfstore.Tx) error {
			for _, rel := range batch {
				if err := b.indexFile(tx, rootDir, rel); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return sdfstore.Meta{}, err
		}
	}

	meta := sdfstore.Meta{
		SchemaVersion:         sdfstore.SchemaVersion,
		RootDir:               rootDir,
		BuiltAt:               time.Now().UTC().Format(time.RFC3339),
		PLPageSize:            opts.PLPageSize,
		TotalFiles:            b.totalFiles,
		TotalRecords:          b.totalRecords,
		TotalCompoundRecords:  b.totalCompoundRecords,
		TotalConformerRecords: b.totalConformerRecords,
	}
	if err := store.Update(func(tx *sdfstore.Tx) error {
		return tx.PutMeta(meta)
	}); err != nil {
		return sdfstore.Meta{}, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}

	log.Infof("build complete: %d files, %d records (%d compound, %d conformer)",
		meta.TotalFiles, meta.TotalRecords, meta.TotalCompoundRecords, meta.TotalConformerRecords)
	return meta, nil
}

type builder struct {
	store *sdfstore.Store
	opts  BuildOptions

	totalFiles            uint64
	totalRecords          uint64
	totalCompoundRecords  uint64
	totalConformerRecords uint64
}

func (b *builder) indexFile(tx *sdfstore.Tx, rootDir, relPath string) error {
	kind := classify(filepath.Base(relPath), b.opts.ConformerPatterns, b.opts.CompoundPatterns)

	f, err := os.Open(filepath.Join(rootDir, relPath))
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrFileIO, relPath, err)
	}
	defer f.Close()

	fileID, err := tx.GetOrCreateFileID(relPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	b.totalFiles++

	parser := sdfparse.New(f, kind,
		sdfparse.WithCIDFields(b.opts.CIDFields),
		sdfparse.WithConformerIDFields(b.opts.ConformerIDFields),
		sdfparse.WithParentCIDFields(b.opts.ParentCIDFields),
	)

	for {
		rec, err := parser.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("%w: read %s: %v", ErrFileIO, relPath, err)
		}
		if err := b.indexRecord(tx, uint32(fileID), relPath, kind, rec); err != nil {
			return err
		}
		if b.opts.Progress != nil {
			b.opts.Progress.Add(1)
		}
	}
	return nil
}

func (b *builder) indexRecord(tx *sdfstore.Tx, fileID uint32, relPath string, kind sdfparse.FileKind, rec *sdfparse.Record) error {
	isConformer := kind == sdfparse.KindConformer

	var primaryID string
	if isConformer {
		primaryID = rec.ConformerID
	} else if rec.HasCID {
		primaryID = fmt.Sprintf("%d", rec.CID)
	}

	alid := DeriveALID(isConformer, relPath, rec.RecNo, primaryID)

	effectiveCID := int64(-1)
	hasEffectiveCID := false
	if isConformer {
		if rec.HasCID {
			effectiveCID, hasEffectiveCID = rec.CID, true
		} else if rec.HasParentCID {
			effectiveCID, hasEffectiveCID = rec.ParentCID, true
		}
	} else if rec.HasCID {
		effectiveCID, hasEffectiveCID = rec.CID, true
	}

	prefix := sdfstore.PrefixCompound
	if isConformer {
		prefix = sdfstore.PrefixConformer
	}
	primaryKey := sdfstore.PrimaryKey(prefix, alid)

	loc := locator.Locator{
		FileID:      fileID,
		Start:       uint64(rec.Start),
		End:         uint64(rec.End),
		IsConformer: isConformer,
		CID:         effectiveCID,
	}
	if err := tx.PutRecord(primaryKey, locator.Encode(loc)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	b.totalRecords++

	if isConformer {
		b.totalConformerRecords++
		if rec.ConformerID != "" {
			if err := tx.PutConfIDToConf(rec.ConformerID, primaryKey); err != nil {
				return fmt.Errorf("%w: %v", ErrStoreIO, err)
			}
		}
		if hasEffectiveCID {
			if err := tx.AppendConformerPosting(effectiveCID, alid, b.opts.PLPageSize); err != nil {
				return fmt.Errorf("%w: %v", ErrStoreIO, err)
			}
		}
	} else {
		b.totalCompoundRecords++
		if rec.HasCID {
			if err := tx.PutCIDToCompound(rec.CID, primaryKey); err != nil {
				return fmt.Errorf("%w: %v", ErrStoreIO, err)
			}
		}
	}
	return nil
}
