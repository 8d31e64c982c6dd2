package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the site directory, checklist templates and sample users for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"site_teams", "sites", "checklist_templates", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing seed data")
		}

		sites := []struct {
			Site string
			Name string
		}{
			{"hq", "본사 공장"},
			{"jeonju", "전주 공장"},
			{"busan", "부산 공장"},
		}

		for _, s := range sites {
			var exists int
			if err := db.Raw("SELECT 1 FROM sites WHERE site = ?", s.Site).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO sites (site, name) VALUES (?, ?)", s.Site, s.Name).Error; err != nil {
				log.Fatalf("failed to insert site %s: %v", s.Site, err)
			}
			fmt.Println("Seeded site:", s.Site)
		}

		teams := []struct {
			Site    string
			Team    string
			Details string
		}{
			{"hq", "생산팀", `["1라인","2라인","3라인"]`},
			{"hq", "품질팀", `[]`},
			{"hq", "설비팀", `[]`},
			{"jeonju", "생산팀", `["1라인","2라인"]`},
			{"jeonju", "물류팀", `[]`},
			{"busan", "생산팀", `[]`},
			{"busan", "품질팀", `[]`},
		}

		for _, t := range teams {
			var exists int
			if err := db.Raw("SELECT 1 FROM site_teams WHERE site = ? AND team = ?", t.Site, t.Team).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO site_teams (id, site, team, details_json) VALUES (?, ?, ?, ?)",
				uuid.NewString(), t.Site, t.Team, t.Details).Error; err != nil {
				log.Fatalf("failed to insert team %s/%s: %v", t.Site, t.Team, err)
			}
			fmt.Printf("Seeded team: %s/%s\n", t.Site, t.Team)
		}

		templates := []struct {
			ID       string
			Category string
			Title    string
		}{
			{"safety-ppe", "safety", "보호구 착용 확인"},
			{"safety-machine-guard", "safety", "설비 안전 커버 점검"},
			{"safety-floor", "safety", "작업장 바닥 정리 상태 확인"},
			{"safety-emergency-exit", "safety", "비상구 및 소화기 위치 확인"},
			{"quality-first-article", "quality", "초물 검사 완료"},
			{"quality-gauge", "quality", "측정기 교정 상태 확인"},
			{"quality-material", "quality", "자재 상태 육안 검사"},
		}

		for _, t := range templates {
			var exists int
			if err := db.Raw("SELECT 1 FROM checklist_templates WHERE id = ?", t.ID).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO checklist_templates (id, category, title) VALUES (?, ?, ?)",
				t.ID, t.Category, t.Title).Error; err != nil {
				log.Fatalf("failed to insert checklist template %s: %v", t.ID, err)
			}
		}
		fmt.Println("Checklist templates seeded successfully")

		pinHash, _ := bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.DefaultCost)

		users := []struct {
			Name string
			Role string
			Site string
			Team string
		}{
			{"관리자", "admin", "hq", "생산팀"},
			{"김반장", "manager", "hq", "생산팀"},
			{"이작업", "worker", "hq", "생산팀"},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE name = ? AND role = ?", u.Name, u.Role).Row().Scan(&exists); err == nil {
				fmt.Printf("user %s already exists; skipping\n", u.Name)
				continue
			}
			if err := db.Exec("INSERT INTO users (id, name, role, site, team, pin_hash, created_at) VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)",
				uuid.NewString(), u.Name, u.Role, u.Site, u.Team, string(pinHash)).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Name, err)
			}
			fmt.Println("Seeded user:", u.Name)
		}

		fmt.Println("Seed data loaded successfully")
	},
}
