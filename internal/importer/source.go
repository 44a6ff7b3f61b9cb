package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"uniform-tracker-api/internal/util"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Source is where the seed job looks for workbooks.
type Source interface {
	String() string
	List(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Close() error
}

// tests swap this for a fake-gcs-server client
var newGCSClientHook = func(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

// NewSource returns a bucket source for gs:// locations and a directory
// source for anything else.
func NewSource(ctx context.Context, location string) (Source, error) {
	if !util.IsGCSURI(location) {
		return &DirSource{Dir: location}, nil
	}

	bucket, prefix, err := util.ParseGCSURI(location)
	if err != nil {
		return nil, err
	}
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSource{Client: client, Bucket: bucket, Prefix: prefix, owned: true}, nil
}

type DirSource struct {
	Dir string
}

func (d *DirSource) String() string { return d.Dir }

func (d *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (d *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.Dir, name))
}

func (d *DirSource) Close() error { return nil }

// GCSSource lists objects under Prefix in Bucket.
type GCSSource struct {
	Client *storage.Client
	Bucket string
	Prefix string

	owned bool
}

func (g *GCSSource) String() string {
	return "gs://" + path.Join(g.Bucket, g.Prefix)
}

func (g *GCSSource) List(ctx context.Context) ([]string, error) {
	var names []string

	it := g.Client.Bucket(g.Bucket).Objects(ctx, &storage.Query{Prefix: g.Prefix})
	for {
		obj, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", g, err)
		}
		if strings.HasSuffix(obj.Name, "/") {
			continue
		}
		names = append(names, obj.Name)
	}
	return names, nil
}

func (g *GCSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return g.Client.Bucket(g.Bucket).Object(name).NewReader(ctx)
}

func (g *GCSSource) Close() error {
	if g.owned {
		return g.Client.Close()
	}
	return nil
}

// Markers are the case-insensitive filename tokens that pick each workbook.
type Markers struct {
	Roster  string
	Fitting string
}

// Discover picks the roster and fitting-log workbooks among the .xlsx files in
// src. Names are tried in sorted order; the first match per marker wins.
func Discover(ctx context.Context, src Source, markers Markers) (roster, fitting string, err error) {
	names, err := src.List(ctx)
	if err != nil {
		return "", "", err
	}

	workbooks := make([]string, 0, len(names))
	for _, n := range names {
		base := path.Base(filepath.ToSlash(n))
		if !strings.EqualFold(path.Ext(base), ".xlsx") || strings.HasPrefix(base, "~$") {
			continue
		}
		workbooks = append(workbooks, n)
	}
	sort.Strings(workbooks)

	roster = matchMarker(workbooks, markers.Roster)
	if roster == "" {
		return "", "", &SourceNotFoundError{Role: RoleRoster, Marker: markers.Roster, Source: src.String()}
	}
	fitting = matchMarker(workbooks, markers.Fitting)
	if fitting == "" {
		return "", "", &SourceNotFoundError{Role: RoleFitting, Marker: markers.Fitting, Source: src.String()}
	}
	return roster, fitting, nil
}

func matchMarker(names []string, marker string) string {
	marker = strings.ToLower(strings.TrimSpace(marker))
	if marker == "" {
		return ""
	}
	for _, n := range names {
		if strings.Contains(strings.ToLower(path.Base(filepath.ToSlash(n))), marker) {
			return n
		}
	}
	return ""
}
