package leveldb

import (
	"encoding/binary"
	"errors"
	"fmt"

	goleveldb "github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"notes-vault/internal/repository"
)

// версия схемы хранилища
const currentDBVersion = 1

// ключ версии базы
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// ErrIncompatibleVersion база записана более новой версией схемы
var ErrIncompatibleVersion = errors.New("incompatible database version")

// Options настройки хранилища
type Options struct {
	// Sync - fsync каждой записи до возврата управления
	Sync bool
	// ReadOnly - открыть базу только для чтения
	ReadOnly bool
}

// Open открывает (или создает) базу в каталоге path
func Open(path string, o Options) (repository.Store, error) {
	db, err := goleveldb.OpenFile(path, &ldb_opt.Options{
		ErrorIfMissing: o.ReadOnly,
		ReadOnly:       o.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return newStore(db, o)
}

// OpenStorage открывает базу поверх произвольного storage (например, storage.NewMemStorage в тестах)
func OpenStorage(stor ldb_storage.Storage, o Options) (repository.Store, error) {
	db, err := goleveldb.Open(stor, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb storage: %w", err)
	}
	return newStore(db, o)
}

func newStore(db *goleveldb.DB, o Options) (repository.Store, error) {
	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := getVersion(db)
	if err != nil {
		return nil, err
	}

	// не даем открыть базу, записанную более новой версией
	if version > currentDBVersion {
		return nil, fmt.Errorf("%w: database version %d > current version %d", ErrIncompatibleVersion, version, currentDBVersion)
	}

	if version == 0 && !o.ReadOnly {
		// пустая база: помечаем текущей версией
		if err := putVersion(db, currentDBVersion); err != nil {
			return nil, err
		}
	}

	ok = true
	return &store{
		db: db,
		wo: &ldb_opt.WriteOptions{Sync: o.Sync},
	}, nil
}

func getVersion(db *goleveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if errors.Is(err, goleveldb.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("read database version: %w", err)
	}

	if len(versionValue) != 4 {
		return 0, fmt.Errorf("%w: version length: expected: %d  actual: %d", ErrIncompatibleVersion, 4, len(versionValue))
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *goleveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, &ldb_opt.WriteOptions{Sync: true})
}
