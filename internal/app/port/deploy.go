package port

import (
	"context"

	"network_resolver/internal/domain/entity"
)

// DeploymentExecutor broadcasts transactions using a resolved signer against a resolved endpoint.
// Implementations live outside this module.
type DeploymentExecutor interface {
	Deploy(ctx context.Context, network *entity.ResolvedNetwork, artifact []byte) (txHash string, err error)
}

// VerificationClient submits source/bytecode verification to a block explorer.
// It receives the opaque explorer key from ResolvedNetwork.ExplorerAPIKey.
type VerificationClient interface {
	Verify(ctx context.Context, network *entity.ResolvedNetwork, contractAddress string, metadata []byte) error
}
