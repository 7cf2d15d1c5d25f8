package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/events"
	"github.com/kestrelab/linkhoard/internal/store"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newTxDB returns a sqlmock-backed *sql.DB that accepts any number of
// transactions. The fakes below ignore the tx handle, so only begin and
// commit/rollback ordering is verified implicitly.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 16; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return db
}

// fakeBookmarkRepo is an in-memory BookmarkRepository.
type fakeBookmarkRepo struct {
	mu        sync.Mutex
	bookmarks map[uuid.UUID]*domain.Bookmark
	db        *sql.DB

	createErr  error
	updateErr  error
	replaceErr error

	replacedTags map[uuid.UUID][]uuid.UUID
}

func newFakeBookmarkRepo(db *sql.DB) *fakeBookmarkRepo {
	return &fakeBookmarkRepo{
		bookmarks:    make(map[uuid.UUID]*domain.Bookmark),
		replacedTags: make(map[uuid.UUID][]uuid.UUID),
		db:           db,
	}
}

func (f *fakeBookmarkRepo) Create(ctx context.Context, b *domain.Bookmark) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bookmarks {
		if existing.URL == b.URL {
			return store.ErrDuplicate
		}
	}
	clone := *b
	f.bookmarks[b.ID] = &clone
	return nil
}

func (f *fakeBookmarkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookmarks[id]
	if !ok {
		return nil, store.ErrBookmarkNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookmarkRepo) GetByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookmarks {
		if b.URL == url {
			clone := *b
			return &clone, nil
		}
	}
	return nil, store.ErrBookmarkNotFound
}

func (f *fakeBookmarkRepo) Update(ctx context.Context, b *domain.Bookmark) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookmarks[b.ID]; !ok {
		return store.ErrBookmarkNotFound
	}
	clone := *b
	f.bookmarks[b.ID] = &clone
	return nil
}

func (f *fakeBookmarkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookmarks[id]; !ok {
		return store.ErrBookmarkNotFound
	}
	delete(f.bookmarks, id)
	return nil
}

func (f *fakeBookmarkRepo) List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Bookmark, 0, len(f.bookmarks))
	for _, b := range f.bookmarks {
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out, nil
}

func (f *fakeBookmarkRepo) ReplaceTags(ctx context.Context, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replacedTags[bookmarkID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

func (f *fakeBookmarkRepo) MoveFolder(ctx context.Context, from, to *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookmarks {
		if from != nil && (b.FolderID == nil || *b.FolderID != *from) {
			continue
		}
		b.FolderID = to
	}
	return nil
}

func (f *fakeBookmarkRepo) WithTx(tx *sql.Tx) BookmarkRepository { return f }
func (f *fakeBookmarkRepo) DB() *sql.DB                          { return f.db }

// fakeTagRepo is an in-memory TagRepository keyed by normalized name.
type fakeTagRepo struct {
	mu   sync.Mutex
	tags map[string]*domain.Tag

	createErr error
	// createConflicts makes Create report a name conflict once while still
	// storing the tag, simulating a concurrent creator winning the race.
	createConflicts bool
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*domain.Tag)}
}

func (f *fakeTagRepo) Create(ctx context.Context, tag *domain.Tag) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[tag.Name]; ok {
		return store.ErrTagNameExists
	}
	clone := *tag
	f.tags[tag.Name] = &clone
	if f.createConflicts {
		f.createConflicts = false
		return store.ErrTagNameExists
	}
	return nil
}

func (f *fakeTagRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tag := range f.tags {
		if tag.ID == id {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, store.ErrTagNotFound
}

func (f *fakeTagRepo) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tag, ok := f.tags[domain.NormalizeTagName(name)]
	if !ok {
		return nil, store.ErrTagNotFound
	}
	clone := *tag
	return &clone, nil
}

func (f *fakeTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, tag := range f.tags {
		if tag.ID == id {
			delete(f.tags, name)
			return nil
		}
	}
	return store.ErrTagNotFound
}

func (f *fakeTagRepo) List(ctx context.Context, offset, limit int) ([]*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Tag, 0, len(f.tags))
	for _, tag := range f.tags {
		clone := *tag
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTagRepo) Search(ctx context.Context, query string) ([]*domain.Tag, error) {
	all, _ := f.List(ctx, 0, 0)
	out := make([]*domain.Tag, 0, len(all))
	for _, tag := range all {
		if strings.Contains(tag.Name, strings.ToLower(query)) {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (f *fakeTagRepo) Popular(ctx context.Context, limit int) ([]*domain.Tag, error) {
	return f.List(ctx, 0, limit)
}

func (f *fakeTagRepo) WithTx(tx *sql.Tx) TagRepository { return f }

// fakeFolderRepo is an in-memory FolderRepository.
type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[uuid.UUID]*domain.Folder
	db      *sql.DB

	deleteErr error
}

func newFakeFolderRepo(db *sql.DB) *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[uuid.UUID]*domain.Folder), db: db}
}

func (f *fakeFolderRepo) seed(t *testing.T, name string, parentID *uuid.UUID) *domain.Folder {
	t.Helper()
	folder, err := domain.NewFolder(name, parentID, "")
	require.NoError(t, err)
	require.NoError(t, f.Create(context.Background(), folder))
	return folder
}

func (f *fakeFolderRepo) Create(ctx context.Context, folder *domain.Folder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *folder
	f.folders[folder.ID] = &clone
	return nil
}

func (f *fakeFolderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, ok := f.folders[id]
	if !ok {
		return nil, store.ErrFolderNotFound
	}
	clone := *folder
	return &clone, nil
}

func (f *fakeFolderRepo) Update(ctx context.Context, folder *domain.Folder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folders[folder.ID]; !ok {
		return store.ErrFolderNotFound
	}
	clone := *folder
	f.folders[folder.ID] = &clone
	return nil
}

func (f *fakeFolderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folders[id]; !ok {
		return store.ErrFolderNotFound
	}
	delete(f.folders, id)
	return nil
}

func (f *fakeFolderRepo) ListAll(ctx context.Context) ([]*domain.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Folder, 0, len(f.folders))
	for _, folder := range f.folders {
		clone := *folder
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeFolderRepo) Reparent(ctx context.Context, from, to *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, folder := range f.folders {
		if from != nil && (folder.ParentID == nil || *folder.ParentID != *from) {
			continue
		}
		if from == nil && folder.ParentID != nil {
			continue
		}
		folder.ParentID = to
	}
	return nil
}

func (f *fakeFolderRepo) WithTx(tx *sql.Tx) FolderRepository { return f }
func (f *fakeFolderRepo) DB() *sql.DB                        { return f.db }

// fakeEmitter records emitted events.
type fakeEmitter struct {
	mu      sync.Mutex
	events  []*events.JobRequestEvent
	emitErr error
}

func (f *fakeEmitter) EmitEvent(ctx context.Context, event *events.JobRequestEvent) error {
	if f.emitErr != nil {
		return f.emitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEmitter) emitted() []*events.JobRequestEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*events.JobRequestEvent(nil), f.events...)
}
