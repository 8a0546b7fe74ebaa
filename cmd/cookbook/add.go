package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devdonalds/cookbook/internal/cookbook"
)

var (
	addServerURL string
	addToken     string
)

func init() {
	addCmd.Flags().StringVar(&addServerURL, "server", "http://localhost:8080", "Cookbook server base URL")
	addCmd.Flags().StringVar(&addToken, "token", "", "Bearer token for servers with admission auth enabled")
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Interactively add an entry to a running cookbook server",
	Long:  "Prompt for an ingredient or recipe definition and submit it to the admission endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := promptEntry()
		if err != nil {
			return err
		}

		// Validate locally before bothering the server
		if _, err := cookbook.ParseEntry(raw); err != nil {
			return fmt.Errorf("entry is invalid: %w", err)
		}

		return submitEntry(raw)
	},
}

// promptEntry collects an entry definition from the terminal
func promptEntry() (map[string]interface{}, error) {
	var entryType string
	prompt := &survey.Select{
		Message: "Entry type:",
		Options: []string{cookbook.TypeIngredient, cookbook.TypeRecipe},
	}
	if err := survey.AskOne(prompt, &entryType); err != nil {
		return nil, err
	}

	var name string
	if err := survey.AskOne(&survey.Input{Message: "Name:"}, &name,
		survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}

	raw := map[string]interface{}{
		"type": entryType,
		"name": name,
	}

	if entryType == cookbook.TypeIngredient {
		var cookTime int
		if err := survey.AskOne(&survey.Input{Message: "Cook time (minutes):"}, &cookTime); err != nil {
			return nil, err
		}
		raw["cookTime"] = cookTime
		return raw, nil
	}

	// Recipes: collect required items until the user stops
	items := []interface{}{}
	for {
		var itemName string
		if err := survey.AskOne(&survey.Input{Message: "Required item name:"}, &itemName,
			survey.WithValidator(survey.Required)); err != nil {
			return nil, err
		}

		var quantity int
		if err := survey.AskOne(&survey.Input{Message: "Quantity:", Default: "1"}, &quantity); err != nil {
			return nil, err
		}

		items = append(items, map[string]interface{}{
			"name":     itemName,
			"quantity": quantity,
		})

		more := false
		if err := survey.AskOne(&survey.Confirm{Message: "Add another required item?"}, &more); err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	raw["requiredItems"] = items
	return raw, nil
}

// submitEntry posts the entry to the server's admission endpoint
func submitEntry(raw map[string]interface{}) error {
	body, err := json.Marshal(raw)
	if err != nil {
		return err
	}

	url := strings.TrimRight(addServerURL, "/") + "/entry"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if addToken != "" {
		req.Header.Set("Authorization", "Bearer "+addToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach cookbook server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		color.Green("Entry %q admitted", raw["name"])
		return nil
	}

	// Surface the server's rejection reason
	var rejection struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rejection); err == nil && rejection.Message != "" {
		color.Red("Rejected (%s): %s", rejection.Code, rejection.Message)
		return fmt.Errorf("server rejected entry")
	}

	return fmt.Errorf("server responded with status %d", resp.StatusCode)
}
