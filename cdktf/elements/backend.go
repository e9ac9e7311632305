package elements

import (
	"github.com/mitchellh/mapstructure"

	"github.com/cdktf-core/synth/cdktf/cdktferrors"
)

// BackendKind names a supported Terraform state backend variant.
type BackendKind string

const (
	BackendLocal    BackendKind = "local"
	BackendS3       BackendKind = "s3"
	BackendGCS      BackendKind = "gcs"
	BackendAzurerm  BackendKind = "azurerm"
	BackendRemote   BackendKind = "remote"
	BackendCloud    BackendKind = "cloud"
)

// LocalBackend persists state to a file on the synthesizing machine.
type LocalBackend struct {
	Path string `mapstructure:"path"`
}

// S3Backend persists state to an AWS S3 bucket, optionally with a DynamoDB
// lock table.
type S3Backend struct {
	Bucket  string `mapstructure:"bucket"`
	Key     string `mapstructure:"key"`
	Region  string `mapstructure:"region"`
	DynamoDBTable string `mapstructure:"dynamodb_table"`
	Encrypt bool   `mapstructure:"encrypt"`
}

// GCSBackend persists state to a Google Cloud Storage bucket.
type GCSBackend struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// AzurermBackend persists state to an Azure Storage container.
type AzurermBackend struct {
	StorageAccountName string `mapstructure:"storage_account_name"`
	ContainerName       string `mapstructure:"container_name"`
	Key                 string `mapstructure:"key"`
}

// RemoteBackend points at a Terraform Cloud/Enterprise workspace (the
// pre-"cloud" block style).
type RemoteBackend struct {
	Organization string   `mapstructure:"organization"`
	Hostname     string   `mapstructure:"hostname"`
	Workspaces   []string `mapstructure:"workspaces"`
}

// CloudBackend points at a single Terraform Cloud workspace (or a
// tag-selected set, which the cross-stack rewriter cannot target — spec
// §4.F UnsupportedCrossStack).
type CloudBackend struct {
	Organization string   `mapstructure:"organization"`
	Hostname     string   `mapstructure:"hostname"`
	Workspace    string   `mapstructure:"workspace"`
	WorkspaceTags []string `mapstructure:"workspace_tags"`
}

// Backend is the stack-level state-backend configuration. Exactly one of
// the typed fields is populated, selected by Kind.
type Backend struct {
	Kind BackendKind

	Local    *LocalBackend
	S3       *S3Backend
	GCS      *GCSBackend
	Azurerm  *AzurermBackend
	Remote   *RemoteBackend
	Cloud    *CloudBackend
}

// NewBackend decodes a generic attribute map (the shape a typed
// code-generated wrapper constructor would otherwise receive) into the
// typed backend config struct selected by kind.
func NewBackend(kind BackendKind, attrs map[string]interface{}) (*Backend, error) {
	b := &Backend{Kind: kind}
	var err error
	switch kind {
	case BackendLocal:
		b.Local = &LocalBackend{}
		err = mapstructure.Decode(attrs, b.Local)
	case BackendS3:
		b.S3 = &S3Backend{}
		err = mapstructure.Decode(attrs, b.S3)
	case BackendGCS:
		b.GCS = &GCSBackend{}
		err = mapstructure.Decode(attrs, b.GCS)
	case BackendAzurerm:
		b.Azurerm = &AzurermBackend{}
		err = mapstructure.Decode(attrs, b.Azurerm)
	case BackendRemote:
		b.Remote = &RemoteBackend{}
		err = mapstructure.Decode(attrs, b.Remote)
	case BackendCloud:
		b.Cloud = &CloudBackend{}
		err = mapstructure.Decode(attrs, b.Cloud)
	default:
		return nil, cdktferrors.Newf(cdktferrors.ValidationFailed, "unsupported backend kind %q", kind)
	}
	if err != nil {
		return nil, cdktferrors.Wrap(cdktferrors.ValidationFailed, "decoding backend configuration", err)
	}
	return b, nil
}

// ToTerraform renders the backend's `terraform { backend "<kind>" {...} }`
// block.
func (b *Backend) ToTerraform() (map[string]interface{}, error) {
	var cfg map[string]interface{}
	if err := mapstructure.Decode(b.variant(), &cfg); err != nil {
		return nil, cdktferrors.Wrap(cdktferrors.ValidationFailed, "encoding backend configuration", err)
	}
	return map[string]interface{}{
		"terraform": map[string]interface{}{
			"backend": map[string]interface{}{
				string(b.Kind): cfg,
			},
		},
	}, nil
}

func (b *Backend) variant() interface{} {
	switch b.Kind {
	case BackendLocal:
		return b.Local
	case BackendS3:
		return b.S3
	case BackendGCS:
		return b.GCS
	case BackendAzurerm:
		return b.Azurerm
	case BackendRemote:
		return b.Remote
	case BackendCloud:
		return b.Cloud
	default:
		return map[string]interface{}{}
	}
}

// SupportsCrossStackDataSource reports whether this backend variant can be
// targeted by a generated `terraform_remote_state` data source. A Cloud
// backend selecting workspaces by tag (rather than a single named
// workspace) cannot be: there is no single workspace to point the data
// source at, so the cross-stack rewriter must fail with
// UnsupportedCrossStack instead (spec §4.F Non-goals).
func (b *Backend) SupportsCrossStackDataSource() bool {
	if b.Kind == BackendCloud && b.Cloud != nil && len(b.Cloud.WorkspaceTags) > 0 {
		return false
	}
	return true
}

// GetRemoteStateDataSource builds the `data.terraform_remote_state.<name>`
// attribute map a consuming stack needs to read this backend's outputs
// (spec §4.F).
func (b *Backend) GetRemoteStateDataSource() (map[string]interface{}, error) {
	if !b.SupportsCrossStackDataSource() {
		return nil, cdktferrors.New(cdktferrors.UnsupportedCrossStack,
			"cloud backend selecting workspaces by tag cannot be referenced by terraform_remote_state")
	}
	switch b.Kind {
	case BackendLocal:
		return map[string]interface{}{"backend": "local", "config": map[string]interface{}{"path": b.Local.Path}}, nil
	case BackendS3:
		return map[string]interface{}{"backend": "s3", "config": map[string]interface{}{
			"bucket": b.S3.Bucket, "key": b.S3.Key, "region": b.S3.Region,
		}}, nil
	case BackendGCS:
		return map[string]interface{}{"backend": "gcs", "config": map[string]interface{}{
			"bucket": b.GCS.Bucket, "prefix": b.GCS.Prefix,
		}}, nil
	case BackendAzurerm:
		return map[string]interface{}{"backend": "azurerm", "config": map[string]interface{}{
			"storage_account_name": b.Azurerm.StorageAccountName,
			"container_name":       b.Azurerm.ContainerName,
			"key":                  b.Azurerm.Key,
		}}, nil
	case BackendRemote:
		return map[string]interface{}{"backend": "remote", "config": map[string]interface{}{
			"organization": b.Remote.Organization, "workspaces": b.Remote.Workspaces,
		}}, nil
	case BackendCloud:
		return map[string]interface{}{"backend": "remote", "config": map[string]interface{}{
			"organization": b.Cloud.Organization,
			"workspaces":   []string{b.Cloud.Workspace},
		}}, nil
	default:
		return nil, cdktferrors.Newf(cdktferrors.ValidationFailed, "unsupported backend kind %q", b.Kind)
	}
}
