// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The offline batch path is HarvestService -> Indexer; the online
// query path is AskService (guardrail, Retriever, Answerer). The two
// paths share only the vector index, via its driven port.
package services
