// 開發用的資料填充工具:透過公開 API 註冊假使用者並發布技能貼文與媒合。
// 用法: go run ./seeder [API 位址，預設 http://localhost:5004]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var baseURL = "http://localhost:5004"

type registerPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type skillPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	if len(os.Args) > 1 {
		baseURL = strings.TrimRight(os.Args[1], "/")
	}

	// 註冊幾個使用者，每人發布幾則技能貼文
	skillIDs := []string{}
	tokens := []string{}
	for i := 0; i < 5; i++ {
		user := registerPayload{
			Email:    gofakeit.Email(),
			Name:     gofakeit.Name(),
			Password: "123456", // 開發用的預設密碼
		}
		if err := postJSON("/api/auth/register", "", user, nil); err != nil {
			log.Fatalf("Could not register user: %v", err)
		}

		var loginResp struct {
			Token string `json:"token"`
		}
		if err := postJSON("/api/auth/login", "", map[string]string{
			"email":    user.Email,
			"password": user.Password,
		}, &loginResp); err != nil {
			log.Fatalf("Could not log in as %s: %v", user.Email, err)
		}
		tokens = append(tokens, loginResp.Token)

		for j := 0; j < 3; j++ {
			skill := skillPayload{
				Title:       gofakeit.Hobby(),
				Description: gofakeit.Sentence(12),
				Tags:        strings.Join([]string{gofakeit.Word(), gofakeit.Word(), gofakeit.Word()}, ", "),
			}
			var skillResp struct {
				ID string `json:"id"`
			}
			if err := postJSON("/api/skills", loginResp.Token, skill, &skillResp); err != nil {
				log.Fatalf("Could not create skill: %v", err)
			}
			skillIDs = append(skillIDs, skillResp.ID)
		}
		log.Printf("Seeded user %s with 3 skills", user.Email)
	}

	// 讓後面註冊的使用者對前面使用者的技能發出媒合請求
	sessions := 0
	for i := 1; i < len(tokens); i++ {
		skillID := skillIDs[(i-1)*3] // 別人發布的技能
		if err := postJSON("/api/sessions", tokens[i], map[string]string{"skillId": skillID}, nil); err != nil {
			log.Printf("Could not create session for skill %s: %v", skillID, err)
			continue
		}
		sessions++
	}

	log.Printf("Seeding done: %d users, %d skills, %d sessions", len(tokens), len(skillIDs), sessions)
}

// postJSON 對 API 發送 JSON 請求，token 非空時帶上 Authorization 標頭
func postJSON(path, token string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
