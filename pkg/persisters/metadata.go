// Package persisters saves local artifacts of tape sessions: a timestamped
// XML snapshot of every index that was loaded or written, for offline
// inspection and recovery, plus a catalog of the snapshots.
package persisters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/pojntfx/dltfs/internal/persisters"
)

const snapshotTimeLayout = "20060102_150405"

var metadataMigrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1630000000_create_snapshots",
			Up: []string{
				`create table snapshots (
	id integer primary key autoincrement,
	volume_uuid text not null,
	generation integer not null,
	update_time text not null,
	file_count integer not null,
	path text not null,
	created_at text not null
);`,
			},
			Down: []string{
				`drop table snapshots;`,
			},
		},
	},
}

type Snapshot struct {
	ID         int64
	VolumeUUID string
	Generation uint64
	UpdateTime string
	FileCount  int64
	Path       string
	CreatedAt  string
}

type MetadataPersister struct {
	*persisters.SQLite

	snapshotDir string
}

func NewMetadataPersister(dbPath string, snapshotDir string) *MetadataPersister {
	return &MetadataPersister{
		SQLite: &persisters.SQLite{
			DBPath:     dbPath,
			Migrations: metadataMigrations,
		},

		snapshotDir: snapshotDir,
	}
}

// PersistSnapshot writes the serialized index to a timestamped file and
// records it in the catalog. The filename carries the generation and the
// date-time stamp; rewriting the same generation overwrites its snapshot,
// which is identical content anyway.
func (p *MetadataPersister) PersistSnapshot(
	ctx context.Context,

	volumeUUID string,
	generation uint64,
	updateTime string,
	fileCount int64,

	xml []byte,
) (string, error) {
	if err := os.MkdirAll(p.snapshotDir, os.ModePerm); err != nil {
		return "", err
	}

	now := time.Now()

	path := filepath.Join(
		p.snapshotDir,
		fmt.Sprintf("ltfsindex_gen%07d_%v.xml", generation, now.Format(snapshotTimeLayout)),
	)

	if err := os.WriteFile(path, xml, 0o644); err != nil {
		return "", err
	}

	if _, err := p.DB.ExecContext(
		ctx,
		`insert into snapshots (volume_uuid, generation, update_time, file_count, path, created_at) values (?, ?, ?, ?, ?, ?)`,
		volumeUUID,
		int64(generation),
		updateTime,
		fileCount,
		path,
		now.Format(time.RFC3339),
	); err != nil {
		return "", err
	}

	return path, nil
}

func (p *MetadataPersister) GetSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := p.DB.QueryContext(
		ctx,
		`select id, volume_uuid, generation, update_time, file_count, path, created_at from snapshots order by id asc`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var (
			snapshot   Snapshot
			generation int64
		)
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.VolumeUUID,
			&generation,
			&snapshot.UpdateTime,
			&snapshot.FileCount,
			&snapshot.Path,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, err
		}
		snapshot.Generation = uint64(generation)

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

func (p *MetadataPersister) GetLastSnapshotForVolume(ctx context.Context, volumeUUID string) (Snapshot, error) {
	var (
		snapshot   Snapshot
		generation int64
	)
	if err := p.DB.QueryRowContext(
		ctx,
		`select id, volume_uuid, generation, update_time, file_count, path, created_at from snapshots where volume_uuid = ? order by generation desc limit 1`,
		volumeUUID,
	).Scan(
		&snapshot.ID,
		&snapshot.VolumeUUID,
		&generation,
		&snapshot.UpdateTime,
		&snapshot.FileCount,
		&snapshot.Path,
		&snapshot.CreatedAt,
	); err != nil {
		return Snapshot{}, err
	}
	snapshot.Generation = uint64(generation)

	return snapshot, nil
}
