package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/spf13/viper"

	"github.com/guardknight/guardknight-api/schema"
	"github.com/guardknight/guardknight-api/store"
	"github.com/guardknight/guardknight-api/volunteer"
)

func init() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("guardknight")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	var rosterFile string
	flag.StringVar(&rosterFile, "roster", "", "[optional] yaml roster of volunteers to import")
	flag.Parse()

	db, err := gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(&schema.EmergencyAlert{}).Error; err != nil {
		panic(err)
	}

	if err := db.Model(schema.EmergencyAlert{}).
		AddIndex("emergency_alerts_owner_created", "owner_id", "created_at").Error; err != nil {
		panic(err)
	}

	indexer := schema.NewMongoDBIndexer(viper.GetString("mongo.conn"), viper.GetString("mongo.database"))
	indexer.IndexAll()

	if rosterFile == "" {
		return
	}

	volunteers, err := volunteer.LoadRoster(rosterFile)
	if err != nil {
		panic(err)
	}

	count, err := store.NewMongoStore(indexer.Client, viper.GetString("mongo.database")).
		UpsertVolunteers(context.Background(), volunteers)
	if err != nil {
		panic(err)
	}

	fmt.Printf("imported %d volunteers\n", count)
}
