package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/icco/gomoku"
	"github.com/ifo/sanic"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"moul.io/zapgorm2"
)

var (
	dbMu   sync.Mutex
	dbConn *gorm.DB

	slugMu     sync.Mutex
	slugWorker = sanic.NewWorker7()
)

// getDB returns the shared connection, opening it on first use. Postgres is
// used when DATABASE_URL is set, otherwise a local sqlite file.
func getDB() (*gorm.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if dbConn != nil {
		return dbConn, nil
	}

	gl := zapgorm2.New(log.Desugar())
	gl.SlowThreshold = 200 * time.Millisecond
	gl.IgnoreRecordNotFoundError = true
	config := &gorm.Config{
		Logger: gl.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dialector = postgres.Open(dbURL)
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "gomoku.db"
		}
		log.Infow("DATABASE_URL is empty, using sqlite", "path", path)
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run auto-migration: %w", err)
	}

	dbConn = db
	return db, nil
}

func newSlug() string {
	slugMu.Lock()
	defer slugMu.Unlock()

	id := slugWorker.NextID()
	return slugWorker.IDString(id)
}

func createGame(db *gorm.DB, size int, aiColor gomoku.Color) (string, error) {
	if size < gomoku.WinLength {
		size = gomoku.Size
	}

	game := Game{
		Slug:    newSlug(),
		Status:  StatusActive,
		AIColor: int(aiColor),
	}

	if err := db.Create(&game).Error; err != nil {
		return "", err
	}

	return game.Slug, updateTag(db, game.ID, "Size", strconv.Itoa(size))
}

// updateTag sets key on the game, replacing any earlier value.
func updateTag(db *gorm.DB, gameID int64, key, value string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ? AND key = ?", gameID, key).Delete(&Tag{}).Error; err != nil {
			return err
		}
		return tx.Create(&Tag{GameID: gameID, Key: key, Value: value}).Error
	})
}

func insertMove(db *gorm.DB, gameID int64, player gomoku.Color, text string, turnNumber int64) error {
	move := Move{
		GameID: gameID,
		Player: int(player),
		Text:   text,
		Turn:   turnNumber,
	}

	return db.Create(&move).Error
}

func getGameRow(db *gorm.DB, slug string) (*Game, error) {
	var game Game
	if err := db.Where("slug = ?", slug).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// getGame loads a game and rebuilds its board by replaying every stored move.
func getGame(db *gorm.DB, slug string) (*Game, *gomoku.Game, error) {
	row, err := getGameRow(db, slug)
	if err != nil {
		return nil, nil, err
	}

	var tags []Tag
	if err := db.Where("game_id = ?", row.ID).Order("id").Find(&tags).Error; err != nil {
		return nil, nil, err
	}

	size := gomoku.Size
	for _, t := range tags {
		if t.Key != "Size" {
			continue
		}
		size, err = strconv.Atoi(t.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("bad Size tag %q: %w", t.Value, err)
		}
	}

	game, err := gomoku.NewGame(size, slug)
	if err != nil {
		return nil, nil, err
	}
	game.ID = row.ID
	for _, t := range tags {
		game.SetMeta(t.Key, t.Value)
	}

	if err := replayMoves(db, game); err != nil {
		return nil, nil, err
	}

	return row, game, nil
}

func replayMoves(db *gorm.DB, game *gomoku.Game) error {
	var moves []Move
	if err := db.Where("game_id = ?", game.ID).Order("id").Find(&moves).Error; err != nil {
		return err
	}

	for _, m := range moves {
		if err := game.DoMove(m.Text, gomoku.Color(m.Player)); err != nil {
			return fmt.Errorf("error replaying turn %d move %s: %w", m.Turn, m.Text, err)
		}
	}

	return nil
}

// recordMove stores the last move of game and marks the game finished once it
// is over.
func recordMove(db *gorm.DB, game *gomoku.Game, mv gomoku.Move, color gomoku.Color) error {
	turn := int64(len(game.Turns))
	if err := insertMove(db, game.ID, color, mv.Text(), turn); err != nil {
		return err
	}

	winner, over := game.GameOver()
	if !over {
		return nil
	}

	result, _ := game.GetMeta("Result")
	if err := updateTag(db, game.ID, "Result", result); err != nil {
		return err
	}
	return updateGameStatus(db, game.Slug, StatusFinished, winner)
}

// updateGameStatus updates the game status in the database
func updateGameStatus(db *gorm.DB, slug, status string, winner gomoku.Color) error {
	result := db.Model(&Game{}).Where("slug = ?", slug).Updates(map[string]any{
		"status": status,
		"winner": int(winner),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
