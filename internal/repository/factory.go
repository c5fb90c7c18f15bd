package repository

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"stagekit-api/internal/bridge"
)

// FactoryConfig supplies what the remote backend needs. The desktop
// backend needs nothing here; it finds its bridge in the process
// global.
type FactoryConfig struct {
	PostgresDSN string
}

// IsDesktop reports whether the process runs inside the desktop shell,
// i.e. whether a bridge is registered. No side effects; safe to call
// repeatedly. The factory evaluates it once, at first repository use.
func IsDesktop() bool {
	return bridge.Available()
}

var (
	factoryMu  sync.Mutex
	factoryCfg FactoryConfig

	remoteDB   *sql.DB
	remoteOnce sync.Once
	remoteErr  error

	inventoryOnce sync.Once
	inventoryRepo InventoryRepository
	inventoryErr  error

	pullSheetOnce sync.Once
	pullSheetRepo PullSheetRepository
	pullSheetErr  error
)

// Configure supplies the factory configuration. Call before the first
// Inventory/PullSheets call; later calls only affect a factory that has
// not constructed a backend yet.
func Configure(cfg FactoryConfig) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factoryCfg = cfg
}

func openRemote() (*sql.DB, error) {
	remoteOnce.Do(func() {
		factoryMu.Lock()
		dsn := factoryCfg.PostgresDSN
		factoryMu.Unlock()

		if dsn == "" {
			remoteErr = fmt.Errorf("remote backend not configured")
			return
		}
		remoteDB, remoteErr = OpenPostgres(dsn)
	})
	return remoteDB, remoteErr
}

// Inventory returns the process-wide inventory repository, constructing
// it on first call. The backend choice is fixed at that point for the
// process lifetime: a bridge registered later would not change it.
func Inventory() (InventoryRepository, error) {
	inventoryOnce.Do(func() {
		if IsDesktop() {
			inventoryRepo, inventoryErr = NewLocalInventoryRepository()
			return
		}
		db, err := openRemote()
		if err != nil {
			inventoryErr = err
			return
		}
		inventoryRepo = NewPostgresInventoryRepository(db)
		log.Printf("[Factory] Remote inventory repository selected")
	})
	return inventoryRepo, inventoryErr
}

// PullSheets returns the process-wide pull sheet repository,
// constructing it on first call.
func PullSheets() (PullSheetRepository, error) {
	pullSheetOnce.Do(func() {
		if IsDesktop() {
			pullSheetRepo, pullSheetErr = NewLocalPullSheetRepository()
			return
		}
		db, err := openRemote()
		if err != nil {
			pullSheetErr = err
			return
		}
		pullSheetRepo = NewPostgresPullSheetRepository(db)
		log.Printf("[Factory] Remote pull sheet repository selected")
	})
	return pullSheetRepo, pullSheetErr
}

// resetFactory clears the cached instances. Test hook.
func resetFactory() {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	remoteDB = nil
	remoteErr = nil
	remoteOnce = sync.Once{}
	inventoryRepo = nil
	inventoryErr = nil
	inventoryOnce = sync.Once{}
	pullSheetRepo = nil
	pullSheetErr = nil
	pullSheetOnce = sync.Once{}
}
