package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/dadhelper-backend/infra/common"
	"github.com/GregMSThompson/dadhelper-backend/infra/secret"
)

type Accounts struct {
	API      *serviceaccount.Account
	Notifier *serviceaccount.Account
}

// serviceSpec describes one Cloud Run service built from this repo.
type serviceSpec struct {
	name       string
	dockerfile string
	account    *serviceaccount.Account
	envs       cloudrun.ServiceTemplateSpecContainerEnvArray
	// The notifier holds a snapshot listener open, so it must never scale to zero.
	minScale     string
	cpuThrottled bool
	public       bool
}

func SetupCloudRun(ctx *pulumi.Context, prov *gcp.Provider, accounts *Accounts, bucket *storage.Bucket, res ...pulumi.Resource) error {
	sendgridSecret, err := createSecrets(ctx)
	if err != nil {
		return err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return err
	}
	res = append(res, srv)

	crCfg := config.New(ctx, "cloudrun")
	mailCfg := config.New(ctx, "mail")

	api := serviceSpec{
		name:         "api",
		dockerfile:   "../cmd/api/Dockerfile",
		account:      accounts.API,
		minScale:     crCfg.Require("minScale"),
		cpuThrottled: true,
		public:       true,
		envs: append(baseEnvs(ctx),
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name:  pulumi.String("PHOTOBUCKET"),
				Value: bucket.Name,
			},
		),
	}

	notifier := serviceSpec{
		name:         "notifier",
		dockerfile:   "../cmd/notifier/Dockerfile",
		account:      accounts.Notifier,
		minScale:     "1",
		cpuThrottled: false,
		envs: append(baseEnvs(ctx),
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name:  pulumi.String("SENDGRIDKEYSECRET"),
				Value: sendgridSecret,
			},
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name:  pulumi.String("MAILFROMADDRESS"),
				Value: pulumi.String(mailCfg.Require("fromAddress")),
			},
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name:  pulumi.String("MAILFROMNAME"),
				Value: pulumi.String(mailCfg.Get("fromName")),
			},
		),
	}

	for _, spec := range []serviceSpec{api, notifier} {
		img, err := buildImage(ctx, spec, res...)
		if err != nil {
			return err
		}

		svc, err := createCloudRunService(ctx, img, spec, prov, res...)
		if err != nil {
			return err
		}

		if spec.public {
			if err := setIAMAccessPolicy(ctx, svc, spec, prov); err != nil {
				return err
			}
			ctx.Export(spec.name+"Url", svc.Statuses.Index(pulumi.Int(0)).Url())
		}
	}

	return nil
}

// CreateServiceAccounts gives each service its own identity with Firestore access.
func CreateServiceAccounts(ctx *pulumi.Context, prov *gcp.Provider) (*Accounts, error) {
	api, err := createServiceAccount(ctx, prov, "api", "API Service Account")
	if err != nil {
		return nil, err
	}
	notifier, err := createServiceAccount(ctx, prov, "notifier", "Booking Notifier Service Account")
	if err != nil {
		return nil, err
	}

	// Registration stamps the role claim through the Admin SDK.
	gcpCfg := config.New(ctx, "gcp")
	_, err = projects.NewIAMMember(ctx, "apiFirebaseAuthAdmin", &projects.IAMMemberArgs{
		Role:    pulumi.String("roles/firebaseauth.admin"),
		Member:  memberFor(api),
		Project: pulumi.String(gcpCfg.Require("project")),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return &Accounts{API: api, Notifier: notifier}, nil
}

func baseEnvs(ctx *pulumi.Context) cloudrun.ServiceTemplateSpecContainerEnvArray {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")

	return cloudrun.ServiceTemplateSpecContainerEnvArray{
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String("PROJECTID"),
			Value: pulumi.String(gcpCfg.Require("project")),
		},
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String("REGION"),
			Value: pulumi.String(gcpCfg.Require("region")),
		},
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String("LOGLEVEL"),
			Value: pulumi.String(crCfg.Require("logLevel")),
		},
		&cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String("APPVERSION"),
			Value: pulumi.String(crCfg.Get("appVersion")),
		},
	}
}

func buildImage(ctx *pulumi.Context, spec serviceSpec, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.GenerateHash("../")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, spec.name+"Image", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."), // build from repo root
			Dockerfile: pulumi.String(spec.dockerfile),
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/dadhelper/%s:%s", region, projectID, spec.name, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createServiceAccount(ctx *pulumi.Context, prov *gcp.Provider, name, displayName string) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	sa, err := serviceaccount.NewAccount(ctx, name+"ServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String(name + "-service"),
		DisplayName: pulumi.String(displayName),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	_, err = projects.NewIAMMember(ctx, name+"FirestoreAccess", &projects.IAMMemberArgs{
		Role:    pulumi.String("roles/datastore.user"), // Firestore read/write
		Member:  memberFor(sa),
		Project: pulumi.String(projectID),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return sa, nil
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	spec serviceSpec,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")

	region := gcpCfg.Require("region")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	return cloudrun.NewService(ctx, spec.name+"Service", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),

		Template: &cloudrun.ServiceTemplateArgs{
			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				Annotations: pulumi.StringMap{
					// Autoscaling bounds
					"autoscaling.knative.dev/minScale": pulumi.String(spec.minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					// Instance sizing
					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					"run.googleapis.com/cpu-throttling": pulumi.String(strconv.FormatBool(spec.cpuThrottled)),

					// Set the number of concurrent requests per container
					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: spec.account.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: spec.envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, spec serviceSpec, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	// The API checks Firebase ID tokens itself; browse routes are public.
	_, err := cloudrun.NewIamMember(ctx, spec.name+"PublicInvoker", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}

func createSecrets(ctx *pulumi.Context) (pulumi.StringOutput, error) {
	mailCfg := config.New(ctx, "mail")
	sendgridKey := mailCfg.RequireSecret("sendgridApiKey")

	return secret.AddSecret(ctx, "sendgridApiKeySecret", "sendgrid-api-key", sendgridKey)
}

func memberFor(sa *serviceaccount.Account) pulumi.StringOutput {
	return sa.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)
}
