package spa

import "sync"

const (
	FlashCreateAlbumSuccess = "createAlbumSuccess"
	FlashAddImageSuccess    = "addImageSuccess"
	FlashSaveOrderSuccess   = "saveOrderSuccess"
	FlashAddCommentSuccess  = "addCommentSuccess"
	FlashDeleteImageSuccess = "deleteImageSuccess"
)

/*
FlashKeys lists the flash messages each page shows. Each key is also the id
of the element the message is shown in, so a page only takes the keys it
has elements for and leaves the rest for the page that owns them.
*/
var FlashKeys = map[RouteName][]string{
	RouteHome: {
		FlashCreateAlbumSuccess,
		FlashAddImageSuccess,
	},
	RouteAlbum: {
		FlashSaveOrderSuccess,
		FlashAddCommentSuccess,
		FlashDeleteImageSuccess,
	},
}

/*
FlashStore holds one time messages across a navigation. In the browser it
is backed by sessionStorage.
*/
type FlashStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

type MemoryFlashStore struct {
	lock   sync.Mutex
	values map[string]string
}

func NewMemoryFlashStore() *MemoryFlashStore {
	return &MemoryFlashStore{
		values: map[string]string{},
	}
}

func (s *MemoryFlashStore) Get(key string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryFlashStore) Set(key, value string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.values[key] = value
}

func (s *MemoryFlashStore) Remove(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.values, key)
}

/*
TakeFlash reads and removes a message. Empty messages are removed too but
reported as absent.
*/
func TakeFlash(store FlashStore, key string) (string, bool) {
	value, ok := store.Get(key)
	if !ok {
		return "", false
	}

	store.Remove(key)
	return value, value != ""
}
