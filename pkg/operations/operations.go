// Package operations ties the device, navigation, locator, transfer and
// persistence layers into the high-level verbs exposed by the CLI.
package operations

import (
	"sync"

	"github.com/friendsofgo/errors"
	"github.com/pojntfx/dltfs/pkg/config"
	"github.com/pojntfx/dltfs/pkg/index"
	"github.com/pojntfx/dltfs/pkg/locator"
	"github.com/pojntfx/dltfs/pkg/logging"
	"github.com/pojntfx/dltfs/pkg/position"
	"github.com/pojntfx/dltfs/pkg/scsi"
	"github.com/pojntfx/dltfs/pkg/tape"
	"github.com/pojntfx/dltfs/pkg/transfer"
)

// IndexCreator is written into every index generation this tool produces.
const IndexCreator = "dltfs"

// DriveManager hands out exclusive access to a drive's raw command runner.
type DriveManager interface {
	Acquire() (scsi.CommandRunner, error)
	Release() error
}

type Operations struct {
	metadata config.MetadataConfig
	fs       config.FileSystemConfig

	manager DriveManager

	// onHeader is invoked once per file as an operation starts processing
	// it, for progress reporting by the caller.
	onHeader func(event *HeaderEvent)

	log logging.StructuredLogger

	// diskOperationLock serializes all verbs of one Operations value; the
	// manager's lock below it serializes across values.
	diskOperationLock sync.Mutex

	dev    *scsi.Device
	nav    *position.Navigator
	loc    *locator.Locator
	engine *transfer.Engine

	index *index.Index
}

// HeaderEvent describes one file entering an archive or restore pass.
type HeaderEvent struct {
	Type    string
	Path    string
	Length  uint64
	Extents int
}

func NewOperations(
	drive config.DriveConfig,
	metadata config.MetadataConfig,
	fs config.FileSystemConfig,

	onHeader func(event *HeaderEvent),

	log logging.StructuredLogger,
) *Operations {
	return NewOperationsForManager(
		tape.NewTapeManager(drive.Drive),
		metadata,
		fs,

		onHeader,

		log,
	)
}

// NewOperationsForManager wires the verbs to an externally managed drive,
// for embedding and for tests against simulated media.
func NewOperationsForManager(
	manager DriveManager,
	metadata config.MetadataConfig,
	fs config.FileSystemConfig,

	onHeader func(event *HeaderEvent),

	log logging.StructuredLogger,
) *Operations {
	return &Operations{
		metadata: metadata,
		fs:       fs,

		manager: manager,

		onHeader: onHeader,

		log: log,
	}
}

// acquire opens the drive and builds the layer stack. Every verb pairs it
// with a deferred release. Verbs that move blocks additionally switch the
// drive to variable block mode first.
func (o *Operations) acquire() error {
	runner, err := o.manager.Acquire()
	if err != nil {
		return err
	}

	o.dev = scsi.NewDevice(runner, true, o.log)
	o.nav = position.NewNavigator(o.dev, o.log)
	o.loc = locator.NewLocator(o.nav, config.LocatorConfig{}, o.log)
	o.engine = transfer.NewEngine(o.nav, config.BlockSize, o.log)

	return nil
}

func (o *Operations) release() error {
	o.dev = nil
	o.nav = nil
	o.loc = nil
	o.engine = nil

	return o.manager.Release()
}

// Index returns the most recently loaded or written index, or an error if no
// verb has loaded one yet.
func (o *Operations) Index() (*index.Index, error) {
	if o.index == nil {
		return nil, errors.Wrap(config.ErrNoIndexFound, "no index has been read in this session")
	}

	return o.index, nil
}

func (o *Operations) emitHeader(event *HeaderEvent) {
	if o.onHeader != nil {
		o.onHeader(event)
	}
}
