// Package driven declares what the core needs from infrastructure.
//
// # Required
//
//   - RecordStore: Chunk record persistence, per owner
//   - UserStore: User persistence and counters
//   - EmbeddingService: Turns text into vectors
//   - TextExtractor: Turns uploaded bytes into plain text
//   - ConfigStore: Application configuration
//
// # Optional
//
// A nil value degrades the feature instead of failing:
//
//   - LLMService: Answer generation. Without it, answers fall back to retrieved context.
//   - PromptStore: Prompt templates. Without it, built-in prompts are used.
//   - ProviderChecker: Settings checks. Without it, settings are saved unchecked.
//
// Packages here import only domain.
package driven
