package server

import (
	"fmt"
	"sync"

	"github.com/cuemby/opcuad/pkg/addrspace"
	"github.com/cuemby/opcuad/pkg/ids"
	"github.com/cuemby/opcuad/pkg/instantiate"
	"github.com/cuemby/opcuad/pkg/lifecycle"
	"github.com/cuemby/opcuad/pkg/log"
	"github.com/cuemby/opcuad/pkg/nodeservice"
	"github.com/cuemby/opcuad/pkg/nszero"
	"github.com/cuemby/opcuad/pkg/typesys"
)

// Config holds the configuration for creating a Server.
type Config struct {
	// TempDirPrefix names the temp directory backing the bolt store
	// (see pkg/addrspace.Open).
	TempDirPrefix string
	// Namespace is the server's own dedicated namespace index for
	// server-assigned NodeIds (nodes added with a NULL RequestedId).
	Namespace uint16
}

// Server is the address-space server: a single bolt-backed store
// plus its collaborators, guarded by one reader-writer lock. Reads
// (Browse) take the read lock; every mutating operation takes the
// write lock, giving the store the single-writer discipline its own
// methods individually assume but do not enforce across calls.
type Server struct {
	mu sync.RWMutex

	store     *addrspace.Store
	types     *typesys.Resolver
	lifecycle *lifecycle.Registry
	inst      *instantiate.Instantiator
	nodes     *nodeservice.Service
}

// New builds a Server from cfg, opens its store, and bootstraps
// namespace 0 into it.
func New(cfg Config) (*Server, error) {
	store, err := addrspace.Open(cfg.TempDirPrefix, cfg.Namespace)
	if err != nil {
		return nil, fmt.Errorf("server: open store: %w", err)
	}

	if err := nszero.Bootstrap(store); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("server: bootstrap namespace 0: %w", err)
	}

	types := typesys.New(store)
	registry := lifecycle.NewRegistry()
	inst := instantiate.New(store, types, registry)
	nodes := nodeservice.New(store, types, inst, registry)

	log.WithComponent("server").Info().Uint16("namespace", cfg.Namespace).Msg("server bootstrapped")

	return &Server{
		store:     store,
		types:     types,
		lifecycle: registry,
		inst:      inst,
		nodes:     nodes,
	}, nil
}

// Close releases the underlying store, removing its temp directory.
func (s *Server) Close() error {
	return s.store.Close()
}

// RegisterLifecycleHooks registers hooks for a type so that instances
// of it (or an untyped subtype that does not register its own) fire
// Constructor on AddNode and Destructor on DeleteNode.
func (s *Server) RegisterLifecycleHooks(typeId ids.NodeId, hooks lifecycle.Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lifecycle.Register(typeId, hooks)
}

// AddNode validates and inserts a node under the server's write lock.
func (s *Server) AddNode(req nodeservice.AddNodeRequest) (ids.NodeId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes.AddNode(req)
}

// AddReference installs a reference pair under the server's write lock.
func (s *Server) AddReference(sourceId, refTypeId, targetId ids.NodeId, isForward bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes.AddReference(sourceId, refTypeId, targetId, isForward)
}

// DeleteNode removes a node, firing its destructor and cascading to
// now-unreachable owned children, under the server's write lock.
func (s *Server) DeleteNode(id ids.NodeId, deleteTargetReferences bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes.DeleteNode(id, deleteTargetReferences)
}

// DeleteReference removes a reference pair under the server's write lock.
func (s *Server) DeleteReference(sourceId, refTypeId, targetId ids.NodeId, isForward, deleteBidirectional bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes.DeleteReference(sourceId, refTypeId, targetId, isForward, deleteBidirectional)
}

// Browse reads a node's references under the server's read lock,
// allowing concurrent browsers to proceed alongside one another.
func (s *Server) Browse(sessionId string, desc nodeservice.BrowseDescription) (nodeservice.BrowseResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes.Browse(sessionId, desc)
}
