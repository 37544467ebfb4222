package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryAuth:
		return g.generateAuthSuggestions(affectedPath)
	case CategoryConnection:
		return g.generateConnectionSuggestions(affectedPath)
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateAuthSuggestions(_ string) []string {
	return []string{
		"Check that your SSH agent is running and has your key loaded ('ssh-add -l')",
		"Verify a usable key exists at ~/.ssh/id_ed25519, ~/.ssh/id_rsa, or ~/.ssh/id_ecdsa",
		"Confirm the username in the sftp:// URL matches an account on the remote host",
		"Password-protected key files are not supported; load them into the agent instead",
	}
}

func (g *suggestionGenerator) generateConnectionSuggestions(path string) []string {
	suggestions := []string{
		"Check that the remote host is reachable and the hostname is spelled correctly",
		"Verify the SSH port in the URL (defaults to 22)",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Try connecting manually with 'ssh %s'", path))
	}

	suggestions = append(suggestions, "Check for firewalls or VPNs between this machine and the remote host")

	return suggestions
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the path exists and is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
		suggestions = append(suggestions, "Remote paths are relative to the login home unless the URL uses a double slash (sftp://user@host//abs/path)")
	} else {
		suggestions = append(suggestions, "Ensure all parent directories exist")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure the remote account can read the remote directory and this process can write the local one",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the affected path")
	}

	return suggestions
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Verify the remote host, credentials, and directory paths",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
