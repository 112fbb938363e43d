// Package mount exposes a project snapshot as a read-only FUSE filesystem.
package mount

import (
	"context"
	"fmt"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/config"
	"github.com/brettbedarf/codecollab/filetree"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

const fileMode = 0o444

// root builds the whole inode tree from the snapshot when the kernel first
// looks at the mount.
type root struct {
	fs.Inode
	forest []filetree.NodeView
}

var _ = (fs.NodeOnAdder)((*root)(nil))

func (r *root) OnAdd(ctx context.Context) {
	addViews(ctx, &r.Inode, r.forest)
}

func addViews(ctx context.Context, parent *fs.Inode, views []filetree.NodeView) {
	for _, v := range views {
		if v.Type == codecollab.DirKind {
			dir := parent.NewPersistentInode(ctx, &fs.Inode{}, fs.StableAttr{Mode: fuse.S_IFDIR})
			parent.AddChild(v.Name, dir, false)
			addViews(ctx, dir, v.Children)
			continue
		}
		var data []byte
		if v.Content != nil {
			data = []byte(*v.Content)
		}
		file := &fs.MemRegularFile{
			Data: data,
			Attr: fuse.Attr{Mode: fileMode, Size: uint64(len(data))},
		}
		parent.AddChild(v.Name, parent.NewPersistentInode(ctx, file, fs.StableAttr{}), false)
	}
}

// NewRoot returns the root node for a mount of snap
func NewRoot(snap filetree.Snapshot) fs.InodeEmbedder {
	return &root{forest: snap.Forest}
}

// Handle is a live mount
type Handle struct {
	dir    string
	server *fuse.Server
}

// Mount mounts snap read-only at dir. Later changes to the project are not
// reflected; remount to refresh.
func Mount(dir string, snap filetree.Snapshot, opts config.MountOptions) (*Handle, error) {
	logger := util.GetLogger("Mount")

	server, err := fs.Mount(dir, NewRoot(snap), &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:   opts.Name,
			FsName: opts.FsName,
			Debug:  opts.Debug,
			Logger: util.NewLogLogger("FuseServer", util.TraceLevel),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mount %s: %w", dir, err)
	}
	logger.Info().Str("dir", dir).Int("roots", len(snap.Forest)).Msg("Project mounted")
	return &Handle{dir: dir, server: server}, nil
}

func (h *Handle) Dir() string {
	return h.dir
}

// Wait blocks until the filesystem is unmounted
func (h *Handle) Wait() {
	h.server.Wait()
}

func (h *Handle) Unmount() error {
	return h.server.Unmount()
}
