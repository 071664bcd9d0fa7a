package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/dadhelper-backend/infra/cloudrun"
	"github.com/GregMSThompson/dadhelper-backend/infra/docker"
	"github.com/GregMSThompson/dadhelper-backend/infra/firestore"
	"github.com/GregMSThompson/dadhelper-backend/infra/identity"
	"github.com/GregMSThompson/dadhelper-backend/infra/provider"
	"github.com/GregMSThompson/dadhelper-backend/infra/secret"
	"github.com/GregMSThompson/dadhelper-backend/infra/storage"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		// one identity per service so the notifier never gets bucket access
		accounts, err := cloudrun.CreateServiceAccounts(ctx, prov)
		if err != nil {
			return err
		}

		bucket, err := storage.SetupPhotoBucket(ctx, prov, accounts.API)
		if err != nil {
			return err
		}

		secretSvc, err := secret.SetupSecretManager(ctx, prov, accounts.Notifier)
		if err != nil {
			return err
		}

		err = cloudrun.SetupCloudRun(ctx, prov, accounts, bucket, ident, repo, secretSvc)
		if err != nil {
			return err
		}

		ctx.Export("photoBucket", bucket.Name)
		return nil
	})
}
