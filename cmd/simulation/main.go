package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"maharaja-assistant-be/internal/dto"
	"maharaja-assistant-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Drives a running server through a handful of realistic conversations
// and prints what the engine decided for each turn.

var baseURL = "http://localhost:3000/api/chat/v1"

type scenario struct {
	Name  string
	Turns []string
}

var scenarios = []scenario{
	{
		Name: "Flight search with follow-ups",
		Turns: []string{
			"Show me flights from Delhi to Mumbai tomorrow",
			"what about business class?",
			"book the 6 am one",
		},
	},
	{
		Name: "Policy questions",
		Turns: []string{
			"What is the baggage allowance for economy?",
			"can I bring my dog on the flight?",
			"how do I cancel my ticket and get a refund?",
		},
	},
	{
		Name: "Hindi conversation",
		Turns: []string{
			"मुझे दिल्ली से मुंबई की उड़ान चाहिए",
			"सामान भत्ता क्या है?",
		},
	},
	{
		Name: "Small talk and noise",
		Turns: []string{
			"hello!",
			"🙏🙏🙏",
			"who are you?",
		},
	},
}

func main() {
	if v := os.Getenv("SIM_BASE_URL"); v != "" {
		baseURL = v
	}

	client := &http.Client{Timeout: 60 * time.Second}

	for _, sc := range scenarios {
		color.New(color.FgHiWhite, color.Bold).Printf("\n=== %s ===\n", sc.Name)

		sessionId, err := createSession(client, sc.Name)
		if err != nil {
			log.Fatalf("Error: failed to create session: %v", err)
		}
		color.HiBlack("session %s", sessionId)

		for _, turn := range sc.Turns {
			resp, err := sendChat(client, sessionId, turn)
			if err != nil {
				color.Red("  turn failed: %v", err)
				continue
			}
			printTurn(turn, resp)
		}
	}

	fmt.Println()
	color.Green("Simulation complete.")
}

func printTurn(sent string, resp *dto.SendChatResponse) {
	color.Cyan("\n> %s", sent)

	intentColor := color.New(color.FgYellow)
	if resp.FallbackUsed {
		intentColor = color.New(color.FgRed)
	}
	intentColor.Printf("  [%s %.2f lang=%s evidence=%d fallback=%v %dms]\n",
		resp.Intent, resp.Confidence, resp.DetectedLanguage,
		resp.EvidenceCount, resp.FallbackUsed, resp.ElapsedMs)

	if resp.Reply != nil {
		reply := resp.Reply.Chat
		if len(reply) > 400 {
			reply = reply[:400] + "..."
		}
		color.White("  %s", reply)
	}
}

func createSession(client *http.Client, title string) (uuid.UUID, error) {
	var result dto.CreateSessionResponse
	err := call(client, http.MethodPost, baseURL+"/session",
		dto.CreateSessionRequest{Title: title}, &result)
	if err != nil {
		return uuid.Nil, err
	}
	return result.Id, nil
}

func sendChat(client *http.Client, sessionId uuid.UUID, chat string) (*dto.SendChatResponse, error) {
	var result dto.SendChatResponse
	err := call(client, http.MethodPost, baseURL+"/send",
		dto.SendChatRequest{ChatSessionId: sessionId, Chat: chat, Country: "IN"}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func call(client *http.Client, method, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope serverutils.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !envelope.Success {
		return fmt.Errorf("server returned %d: %s", envelope.Code, envelope.Message)
	}

	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
