package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	sqlitePath, isSQLite := strings.CutPrefix(databaseURL, "sqlite://")
	if isSQLite {
		// SQLite for development
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	schema := postgresSchema
	if isSQLite {
		schema = sqliteSchema
	}
	for _, stmt := range strings.Split(schema, ";\n\n") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS brands (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS collections (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		handle TEXT UNIQUE NOT NULL,
		is_visible BOOLEAN DEFAULT true,
		sort_order INTEGER DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		handle TEXT UNIQUE NOT NULL,
		description TEXT,
		vendor TEXT,
		brand_id UUID REFERENCES brands(id),
		category TEXT,
		status TEXT DEFAULT 'active',
		tags TEXT[],
		price DECIMAL(10,2),
		compare_at_price DECIMAL(10,2),
		currency TEXT DEFAULT 'USD',
		sku TEXT,
		barcode TEXT,
		inventory_quantity INTEGER DEFAULT 0,
		weight_grams INTEGER DEFAULT 0,
		seo_description TEXT,
		specifications JSONB,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS product_images (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id),
		url TEXT NOT NULL,
		alt TEXT,
		position INTEGER NOT NULL,
		is_primary BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(product_id, position)
	);

	CREATE TABLE IF NOT EXISTS product_variants (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id),
		title TEXT,
		sku TEXT,
		price DECIMAL(10,2),
		inventory_quantity INTEGER DEFAULT 0,
		position INTEGER NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(product_id, position)
	);

	CREATE TABLE IF NOT EXISTS product_documents (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id),
		url TEXT NOT NULL,
		title TEXT,
		type TEXT DEFAULT 'other',
		position INTEGER NOT NULL,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(product_id, url)
	);

	CREATE TABLE IF NOT EXISTS collection_memberships (
		product_id UUID NOT NULL REFERENCES products(id),
		collection_id UUID NOT NULL REFERENCES collections(id),
		position INTEGER DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		PRIMARY KEY (product_id, collection_id)
	);
`

// sqliteSchema mirrors the postgres schema with portable column types; array
// and jsonb columns degrade to TEXT.
const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS brands (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		handle TEXT UNIQUE NOT NULL,
		is_visible BOOLEAN DEFAULT true,
		sort_order INTEGER DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		handle TEXT UNIQUE NOT NULL,
		description TEXT,
		vendor TEXT,
		brand_id TEXT,
		category TEXT,
		status TEXT DEFAULT 'active',
		tags TEXT,
		price DECIMAL(10,2),
		compare_at_price DECIMAL(10,2),
		currency TEXT DEFAULT 'USD',
		sku TEXT,
		barcode TEXT,
		inventory_quantity INTEGER DEFAULT 0,
		weight_grams INTEGER DEFAULT 0,
		seo_description TEXT,
		specifications TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS product_images (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		url TEXT NOT NULL,
		alt TEXT,
		position INTEGER NOT NULL,
		is_primary BOOLEAN DEFAULT false,
		created_at DATETIME,
		UNIQUE(product_id, position)
	);

	CREATE TABLE IF NOT EXISTS product_variants (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		title TEXT,
		sku TEXT,
		price DECIMAL(10,2),
		inventory_quantity INTEGER DEFAULT 0,
		position INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(product_id, position)
	);

	CREATE TABLE IF NOT EXISTS product_documents (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		type TEXT DEFAULT 'other',
		position INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(product_id, url)
	);

	CREATE TABLE IF NOT EXISTS collection_memberships (
		product_id TEXT NOT NULL,
		collection_id TEXT NOT NULL,
		position INTEGER DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (product_id, collection_id)
	);
`
