package fundclient

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ChiefWoods/fundraiser-go/program"
)

// ExtractErrorCode tries multiple methods to extract a custom program error
// code from an RPC failure.
func ExtractErrorCode(err error) *int {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Format: "err": {"InstructionError": [0, {"Custom": 8}]}
	patterns := []string{
		`"Custom":\s*(\d+)`,     // "Custom": 8
		`"Custom":\s*"(\d+)"`,   // "Custom": "8"
		`Custom:\s*(\d+)`,       // Custom: 8
		`error code:\s*(\d+)`,   // error code: 8
		`Error Number:\s*(\d+)`, // Error Number: 8
	}

	for _, pattern := range patterns {
		if matches := regexp.MustCompile(pattern).FindStringSubmatch(errStr); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return &code
			}
		}
	}

	// Hex format - custom program error: 0x8
	if matches := regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`).FindStringSubmatch(errStr); len(matches) > 1 {
		if code, err := strconv.ParseInt(matches[1], 16, 64); err == nil {
			intCode := int(code)
			return &intCode
		}
	}

	return nil
}

// DescribeCode maps a custom program error code to its static description.
func DescribeCode(code int) (string, bool) {
	e, ok := program.ErrorForCode(uint32(code))
	if !ok {
		return "", false
	}
	return e.Error(), true
}

// ParseProgramError extracts and formats an RPC failure into a
// user-friendly message.
func ParseProgramError(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()

	// BlockhashNotFound means the transaction expired
	if strings.Contains(errStr, "BlockhashNotFound") ||
		strings.Contains(errStr, "Blockhash not found") {
		return "Transaction expired. The blockhash is no longer valid. Please create a new transaction and try again."
	}

	if code := ExtractErrorCode(err); code != nil {
		if msg, ok := DescribeCode(*code); ok {
			return msg
		}
		return fmt.Sprintf("Custom program error code: %d", *code)
	}

	if strings.Contains(errStr, "simulation failed") {
		return "Transaction simulation failed. Check program logs for details."
	}

	if strings.Contains(errStr, "insufficient funds") {
		return "Insufficient SOL balance to pay for transaction"
	}

	if len(errStr) > 300 {
		return errStr[:300] + "..."
	}
	return errStr
}

// ExtractLogMessages extracts program logs from an RPC failure.
func ExtractLogMessages(err error) []string {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	logs := []string{}

	// Entries end at a closing quote in JSON-encoded logs or at a line
	// break in plain text.
	matches := regexp.MustCompile(`Program log: ([^"\n]+)`).FindAllStringSubmatch(errStr, -1)
	for _, match := range matches {
		log := strings.TrimSpace(match[1])
		if log != "" && !contains(logs, log) {
			logs = append(logs, log)
		}
	}

	return logs
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
